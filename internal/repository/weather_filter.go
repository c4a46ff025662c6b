package repository

import "context"

// WeatherFilter carries the query-string filters of GET /weather.  Empty
// strings mean "not supplied".
type WeatherFilter struct {
	CallLetters string
	MinAirTemp  string
	MaxAirTemp  string
	Section     string
}

// Names of the weather queries, reported back in WeatherResult.Query.
const (
	QuerySectionCallLettersAverage = "section_call_letters_average"
	QueryCallLettersMinAirTemp     = "call_letters_min_air_temp"
	QuerySection                   = "section"
	QueryAirTempRange              = "air_temp_range"
	QueryCallLetters               = "call_letters"
)

// WeatherResult is the outcome of a dispatched weather query.
type WeatherResult struct {
	Query string
	Items any
	Count int
}

type weatherRule struct {
	name  string
	match func(WeatherFilter) bool
	run   func(context.Context, *WeatherRepo, WeatherFilter) (any, int, error)
}

// weatherRules is evaluated top to bottom and the first match wins.  The
// order makes combined filters beat the single filters they contain, so a
// section query that also carries an unrelated minAirTemp is still answered
// by the section query.
var weatherRules = []weatherRule{
	{
		name:  QuerySectionCallLettersAverage,
		match: func(f WeatherFilter) bool { return f.Section != "" && f.CallLetters != "" },
		run: func(ctx context.Context, r *WeatherRepo, f WeatherFilter) (any, int, error) {
			return counted(r.AverageAirTempByPosition(ctx, f.Section, f.CallLetters))
		},
	},
	{
		name:  QueryCallLettersMinAirTemp,
		match: func(f WeatherFilter) bool { return f.CallLetters != "" && f.MinAirTemp != "" },
		run: func(ctx context.Context, r *WeatherRepo, f WeatherFilter) (any, int, error) {
			return counted(r.ByCallLettersAndMinAirTemp(ctx, f.CallLetters, f.MinAirTemp))
		},
	},
	{
		name:  QuerySection,
		match: func(f WeatherFilter) bool { return f.Section != "" },
		run: func(ctx context.Context, r *WeatherRepo, f WeatherFilter) (any, int, error) {
			return counted(r.BySection(ctx, f.Section))
		},
	},
	{
		name:  QueryAirTempRange,
		match: func(f WeatherFilter) bool { return f.MinAirTemp != "" || f.MaxAirTemp != "" },
		run: func(ctx context.Context, r *WeatherRepo, f WeatherFilter) (any, int, error) {
			return counted(r.ByAirTemp(ctx, f.MinAirTemp, f.MaxAirTemp))
		},
	},
	{
		name:  QueryCallLetters,
		match: func(f WeatherFilter) bool { return f.CallLetters != "" },
		run: func(ctx context.Context, r *WeatherRepo, f WeatherFilter) (any, int, error) {
			return counted(r.ByCallLetters(ctx, f.CallLetters))
		},
	},
}

// QueryName returns the name of the query f dispatches to, or "" when no
// filter is present.
func (f WeatherFilter) QueryName() string {
	for _, rule := range weatherRules {
		if rule.match(f) {
			return rule.name
		}
	}
	return ""
}

// Query runs the highest-priority query whose filters are all present.
func (r *WeatherRepo) Query(ctx context.Context, f WeatherFilter) (*WeatherResult, error) {
	for _, rule := range weatherRules {
		if !rule.match(f) {
			continue
		}
		items, n, err := rule.run(ctx, r, f)
		if err != nil {
			return nil, err
		}
		return &WeatherResult{Query: rule.name, Items: items, Count: n}, nil
	}
	return nil, newError(ErrNoFilter, "no weather filter supplied")
}

func counted[T any](items []T, err error) (any, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return items, len(items), nil
}
