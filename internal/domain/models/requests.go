package models

// Filters for dashboard data queries. Shared by the HTTP handlers and the data-access facade,
// so the same defaults and bounds apply on both sides of the wire.

const DefaultModelName = "Hybrid-LSTM"

type DateRangeQuery struct {
	StartDate string `query:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type PostsQuery struct {
	Limit    int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
	Platform string `query:"platform" json:"platform" validate:"omitempty,oneof=Twitter Reddit"`
}

type PredictionsQuery struct {
	ModelName string `query:"model_name" json:"model_name" default:"Hybrid-LSTM" validate:"required"`
	DaysAhead int    `query:"days_ahead" json:"days_ahead" default:"7" validate:"gte=1,lte=30"`
}

type MetricsQuery struct {
	Symbol    string `query:"symbol" json:"symbol" default:"BTC" validate:"required"`
	ModelName string `query:"model_name" json:"model_name" default:"Hybrid-LSTM" validate:"required"`
}

// InteractionRequest carries a presentation-layer gesture for the refresh gate.
type InteractionRequest struct {
	Signal string `json:"signal" validate:"required,oneof=zoom pan scroll reset"`
}

type LivePostsQuery struct {
	Platform string `query:"platform" json:"platform" validate:"omitempty,oneof=Twitter Reddit"`
}

// DashboardQuery drives the consolidated snapshot. Symbol falls back to the configured one.
type DashboardQuery struct {
	Symbol    string `query:"symbol" json:"symbol"`
	ModelName string `query:"model_name" json:"model_name" default:"Hybrid-LSTM" validate:"required"`
	DaysAhead int    `query:"days_ahead" json:"days_ahead" default:"7" validate:"gte=1,lte=30"`
	Limit     int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
	Fallback  string `query:"fallback" json:"fallback" default:"true" validate:"oneof=true false"`
}
