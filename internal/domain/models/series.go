package models

import "time"

// Series is one tracked metric/place combination with its own cadence and
// history. FrequencyDays stays nil until the first successful upload fixes it,
// permanently, for the life of the series.
type Series struct {
	ID            string    `json:"id"`
	Company       string    `json:"company"`
	Place         string    `json:"place"`
	FrequencyDays *int      `json:"frequencyDays,omitempty"`
	LastDate      string    `json:"lastDate,omitempty"` // YYYY-MM-DD frontier
	MinBound      *float64  `json:"minBound,omitempty"`
	MaxBound      *float64  `json:"maxBound,omitempty"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DataPoint is one observed value of a series. (series, date) is unique;
// points are append-only and immutable once written.
type DataPoint struct {
	SeriesID string  `json:"-"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Value    float64 `json:"value"`
}

// Prediction is a persisted forecast for a single target date. Immutable once
// created. BasedOnLastDate records the real-data frontier at prediction time.
type Prediction struct {
	ID               string    `json:"id"`
	SeriesID         string    `json:"-"`
	TargetDate       string    `json:"targetDate"` // YYYY-MM-DD
	PredictedValue   float64   `json:"predictedValue"`
	AlgorithmVersion string    `json:"algorithmVersion"`
	BasedOnLastDate  string    `json:"basedOnLastDate"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Evaluation scores one Prediction against the actual observed value. At most
// one per prediction, written once when real data lands on the target date.
type Evaluation struct {
	PredictionID    string    `json:"-"`
	ActualValue     float64   `json:"actualValue"`
	Error           float64   `json:"error"` // actual - predicted
	AbsoluteError   float64   `json:"absoluteError"`
	PercentageError float64   `json:"percentageError"`
	EvaluatedAt     time.Time `json:"evaluatedAt"`
}

// PredictionWithEvaluation pairs a prediction with its evaluation, nil until
// ground truth for the target date arrives.
type PredictionWithEvaluation struct {
	Prediction
	Evaluation *Evaluation `json:"evaluation"`
}

// SeriesDetail is the full read model for one series.
type SeriesDetail struct {
	Series      Series                     `json:"series"`
	History     []DataPoint                `json:"history"`
	Predictions []PredictionWithEvaluation `json:"predictions"`
}
