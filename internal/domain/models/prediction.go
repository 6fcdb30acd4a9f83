package models

// PredictionPoint is one day of a price forecast. Past points carry the realised price.
type PredictionPoint struct {
	Date           string   `json:"date"`
	ActualPrice    *float64 `json:"actual_price"`
	PredictedPrice float64  `json:"predicted_price"`
	LowerBound     float64  `json:"lower_bound"`
	UpperBound     float64  `json:"upper_bound"`
	ErrorDiff      *float64 `json:"error_diff,omitempty"`
	IsFuture       bool     `json:"is_future"`
}

type BenchmarkStatus string

const (
	BenchmarkSuccess BenchmarkStatus = "SUCCESS"
	BenchmarkPending BenchmarkStatus = "PENDING"
	BenchmarkFailed  BenchmarkStatus = "FAILED"
)

type ErrorMetrics struct {
	MAE            float64 `json:"mae"`
	RMSE           float64 `json:"rmse"`
	MAPEPercentage float64 `json:"mape_percentage"`
	R2Score        float64 `json:"r2_score"`
}

type BenchmarkComparison struct {
	MAEReductionPercentage float64         `json:"mae_reduction_percentage"`
	Status                 BenchmarkStatus `json:"status"`
}

// ModelMetrics is an evaluation snapshot, replaced wholesale on refresh.
type ModelMetrics struct {
	ModelName              string              `json:"model_name"`
	EvaluationDate         string              `json:"evaluation_date"`
	Metrics                ErrorMetrics        `json:"metrics"`
	ImprovementVsBenchmark BenchmarkComparison `json:"improvement_vs_benchmark"`
}
