package models

// CreateSeriesRequest creates a new series. Bounds are optional clamps applied
// to every generated forecast.
type CreateSeriesRequest struct {
	Company  string   `json:"company" validate:"required"`
	Place    string   `json:"place" validate:"required"`
	MinBound *float64 `json:"minBound"`
	MaxBound *float64 `json:"maxBound"`
}

// UploadResult summarizes one processed upload. Per-date detail is
// intentionally not reported.
type UploadResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// PredictionResult is the response of the predict endpoint.
type PredictionResult struct {
	Prediction float64 `json:"prediction"`
	TargetDate string  `json:"targetDate"`
	Algorithm  string  `json:"algorithm"`
}

// PostMessageRequest is one user turn sent to the assistant.
type PostMessageRequest struct {
	Text string `json:"text" validate:"required"`
}
