package repository

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/sample-data-api/internal/model"
)

// WeatherRepo encapsulates queries against the weather data collection.
// Single-field lookups use find; the rest are aggregation pipelines that
// match, cap at ten documents and then project.
type WeatherRepo struct {
	data Collection
}

// NewWeatherRepo constructs a WeatherRepo over the weather data collection.
func NewWeatherRepo(data Collection) *WeatherRepo {
	return &WeatherRepo{data: data}
}

// ByCallLetters returns up to ten reports from one station.
func (r *WeatherRepo) ByCallLetters(ctx context.Context, callLetters string) ([]model.WeatherCallLetters, error) {
	const op = "repository/weather/ByCallLetters"

	opts := options.Find().
		SetProjection(bson.D{{Key: "callLetters", Value: 1}}).
		SetLimit(listLimit)
	cur, err := r.data.Find(ctx, bson.D{{Key: "callLetters", Value: callLetters}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeAll[model.WeatherCallLetters](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ByAirTemp returns reports warmer than minAirTemp and, when maxAirTemp is
// non-empty, colder than maxAirTemp.  Both bounds are exclusive.
func (r *WeatherRepo) ByAirTemp(ctx context.Context, minAirTemp, maxAirTemp string) ([]model.WeatherAirTemp, error) {
	lo, ok := parseNumber(minAirTemp)
	if !ok {
		return nil, newError(ErrInvalidParam, "%s is not a valid minimum air temperature", minAirTemp)
	}
	bounds := bson.D{{Key: "$gt", Value: lo}}
	if maxAirTemp != "" {
		hi, ok := parseNumber(maxAirTemp)
		if !ok {
			return nil, newError(ErrInvalidParam, "%s is not a valid maximum air temperature", maxAirTemp)
		}
		if hi <= lo {
			return nil, newError(ErrInvalidParam, "The maximun air temperature %s must be greater than the mininum one %s", maxAirTemp, minAirTemp)
		}
		bounds = append(bounds, bson.E{Key: "$lt", Value: hi})
	}

	pipeline := mongoPipeline(
		bson.D{{Key: "airTemperature.value", Value: bounds}},
		bson.D{{Key: "airTemperature", Value: 1}},
	)
	return aggregate[model.WeatherAirTemp](ctx, r.data, "repository/weather/ByAirTemp", pipeline)
}

// BySection returns up to ten reports carrying section.
func (r *WeatherRepo) BySection(ctx context.Context, section string) ([]model.WeatherSections, error) {
	if strings.TrimSpace(section) == "" {
		return nil, newError(ErrInvalidParam, "Invalid section.")
	}
	pipeline := mongoPipeline(
		bson.D{{Key: "sections", Value: section}},
		bson.D{{Key: "sections", Value: 1}},
	)
	return aggregate[model.WeatherSections](ctx, r.data, "repository/weather/BySection", pipeline)
}

// ByCallLettersAndMinAirTemp returns reports from one station warmer than
// minAirTemp.
func (r *WeatherRepo) ByCallLettersAndMinAirTemp(ctx context.Context, callLetters, minAirTemp string) ([]model.WeatherCallLettersAirTemp, error) {
	lo, ok := parseNumber(minAirTemp)
	if !ok {
		return nil, newError(ErrInvalidParam, "%s is an invalid air temperature.", minAirTemp)
	}
	pipeline := mongoPipeline(
		bson.D{
			{Key: "callLetters", Value: callLetters},
			{Key: "airTemperature.value", Value: bson.D{{Key: "$gt", Value: lo}}},
		},
		bson.D{{Key: "callLetters", Value: 1}, {Key: "airTemperature", Value: 1}},
	)
	return aggregate[model.WeatherCallLettersAirTemp](ctx, r.data, "repository/weather/ByCallLettersAndMinAirTemp", pipeline)
}

// AverageAirTempByPosition groups the reports of one station carrying
// section by position and averages their air temperature.  At most ten
// groups are returned.
func (r *WeatherRepo) AverageAirTempByPosition(ctx context.Context, section, callLetters string) ([]model.PositionAverage, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "sections", Value: bson.D{{Key: "$in", Value: bson.A{section}}}},
			{Key: "callLetters", Value: callLetters},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$position.coordinates"},
			{Key: "averageAirTemp", Value: bson.D{{Key: "$avg", Value: "$airTemperature.value"}}},
		}}},
		bson.D{{Key: "$limit", Value: listLimit}},
	}
	return aggregate[model.PositionAverage](ctx, r.data, "repository/weather/AverageAirTempByPosition", pipeline)
}

// Create inserts a weather report.  airTemperature.value must be a number.
func (r *WeatherRepo) Create(ctx context.Context, doc model.Document) (*model.Created, error) {
	if !hasNumericAirTemp(doc) {
		return nil, newError(ErrMissingField, "Weather data must have a valid air temperature value.")
	}
	delete(doc, "_id")

	res, err := r.data.InsertOne(ctx, doc)
	if err != nil {
		return nil, writeError("repository/weather/Create", err)
	}
	oid := insertedID(res)
	return &model.Created{NewObjectID: oid, Message: fmt.Sprintf("Item created! ID: %s", oid.Hex())}, nil
}

// mongoPipeline builds the match, limit, project shape shared by the flat
// weather aggregations.
func mongoPipeline(match, project bson.D) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$limit", Value: listLimit}},
		bson.D{{Key: "$project", Value: project}},
	}
}

func aggregate[T any](ctx context.Context, coll Collection, op string, pipeline bson.A) ([]T, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeAll[T](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// parseNumber accepts any finite decimal number.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func hasNumericAirTemp(doc model.Document) bool {
	var at map[string]any
	switch v := doc["airTemperature"].(type) {
	case map[string]any:
		at = v
	case model.Document:
		at = v
	default:
		return false
	}
	switch v := at["value"].(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32, int, int32, int64:
		return true
	}
	return false
}
