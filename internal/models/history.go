package models

// HistoryPoint is one daily total-value data point. Dates use the
// YYYY-MM-DD form and are unique per user per day.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

const HistoryDateLayout = "2006-01-02"

// HistoryRetentionDays is how far back recorded points are kept. A point
// exactly this many days old is still retained.
const HistoryRetentionDays = 7
