package models

// Requests for the trading HTTP endpoints. Defined in domain for consistency and reuse.

type ConnectRequest struct {
	// BalanceType optionally overrides the configured account on connect.
	BalanceType string `json:"balance_type" validate:"omitempty,oneof=PRACTICE REAL"`
}

type TradeRequest struct {
	// Assets defaults to the configured default asset list when empty.
	Assets []string `json:"assets" validate:"omitempty,dive,min=3"`
}

type AnalyzeRequest struct {
	Timeframe int `query:"timeframe" json:"timeframe" default:"60" validate:"gte=1,lte=86400"`
	Count     int `query:"count" json:"count" default:"100" validate:"gte=2,lte=1000"`
}

type CandlesRequest struct {
	Timeframe int    `query:"timeframe" json:"timeframe" default:"60" validate:"gte=1,lte=86400"`
	Count     int    `query:"count" json:"count" default:"100" validate:"gte=1,lte=1000"`
	EndTime   string `query:"end_time" json:"end_time"`
}

type SettingsUpdate struct {
	BalanceType string `json:"balance_type" validate:"omitempty,oneof=PRACTICE REAL"`
}
