package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// AirTemperature mirrors the nested airTemperature sub-document.  Quality is
// kept untyped since stored reports use both strings and numbers.
type AirTemperature struct {
	Value   float64 `bson:"value" json:"value"`
	Quality any     `bson:"quality,omitempty" json:"quality,omitempty"`
}

// WeatherCallLetters is the projection of a call-letters lookup.
type WeatherCallLetters struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	CallLetters string             `bson:"callLetters" json:"callLetters"`
}

// WeatherAirTemp is the projection of an air-temperature range query.
type WeatherAirTemp struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	AirTemperature AirTemperature     `bson:"airTemperature" json:"airTemperature"`
}

// WeatherSections is the projection of a section query.
type WeatherSections struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Sections []string           `bson:"sections" json:"sections"`
}

// WeatherCallLettersAirTemp is the projection of the call-letters plus
// minimum temperature query.
type WeatherCallLettersAirTemp struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	CallLetters    string             `bson:"callLetters" json:"callLetters"`
	AirTemperature AirTemperature     `bson:"airTemperature" json:"airTemperature"`
}

// PositionAverage is one group of the average-temperature aggregation: the
// group key is the report position and the value the mean air temperature.
// AverageAirTemp is nil when no report in the group carried a value.
type PositionAverage struct {
	Position       []float64 `bson:"_id" json:"_id"`
	AverageAirTemp *float64  `bson:"averageAirTemp" json:"averageAirTemp"`
}
