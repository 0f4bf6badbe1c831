package history

// IssueSummary identifies the (placeholder) issue an analysis was filed under
type IssueSummary struct {
	Title  string `json:"title"`
	Number int    `json:"number"`
	Repo   string `json:"repo"`
}

// Item is one entry of the recent-analyses log
type Item struct {
	ID        string       `json:"id"`
	Timestamp int64        `json:"timestamp"` // unix milliseconds
	Input     string       `json:"input"`
	Issue     IssueSummary `json:"issue"`
	RootCause string       `json:"rootCause"`
	Severity  string       `json:"severity,omitempty"`
	Score     int          `json:"score"`
}
