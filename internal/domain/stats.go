package domain

// TrustScoreResult — ответ калькулятора индекса доверия
type TrustScoreResult struct {
	Scanned     int64   `json:"scanned"`
	Flagged     int64   `json:"flagged"`
	Blocked     int64   `json:"blocked"`
	Reported    int64   `json:"reported"`
	Score       int     `json:"trust_score"`
	FlaggedRate float64 `json:"flagged_rate"`
	BlockRate   float64 `json:"block_rate"`
	ReportRate  float64 `json:"report_rate"`
}
