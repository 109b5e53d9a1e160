package models

// ScoreGroup aggregates one user's attempts for a category and difficulty.
type ScoreGroup struct {
	Category   string  `json:"category"`
	Difficulty string  `json:"difficulty"`
	Attempts   int     `json:"attempts"`
	Total      int     `json:"total"`
	Correct    int     `json:"correct"`
	Accuracy   float64 `json:"accuracy"`
}

type ScoreSummary struct {
	Overall ScoreGroup   `json:"overall"`
	Groups  []ScoreGroup `json:"groups"`
}

// Accuracy is correct/total, or 0 when no questions were answered.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
