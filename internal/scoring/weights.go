package scoring

import "github.com/SAP-F-2025/spirit-profile-service/internal/models"

// Later chapters dig deeper and count more.
var chapterWeights = map[int]float64{
	1: 0.8,
	2: 1.0,
	3: 1.2,
	4: 1.5,
	5: 2.0,
}

const (
	fastResponseMs = 3000
	slowResponseMs = 30000

	fastResponseWeight = 1.1
	slowResponseWeight = 0.9
	changedWeight      = 0.8
)

// ChapterWeight returns the multiplier for a chapter. Chapters outside the
// table count as 1.0; banks are validated to use chapters 1-5 only.
func ChapterWeight(chapter int) float64 {
	if w, ok := chapterWeights[chapter]; ok {
		return w
	}
	return 1.0
}

// TimeWeight favours intuitive answers and discounts overthought ones.
func TimeWeight(responseTimeMs int64) float64 {
	switch {
	case responseTimeMs < fastResponseMs:
		return fastResponseWeight
	case responseTimeMs > slowResponseMs:
		return slowResponseWeight
	default:
		return 1.0
	}
}

func ChangeWeight(changed bool) float64 {
	if changed {
		return changedWeight
	}
	return 1.0
}

// CompositeWeight is the multiplier applied to every score delta of the
// answer's selected option.
func CompositeWeight(q models.Question, a models.Answer) float64 {
	return q.Weight * ChapterWeight(q.Chapter) * TimeWeight(a.ResponseTimeMs) * ChangeWeight(a.Changed)
}
