package planner

import (
	"fmt"

	"github.com/conorfennell/studyplan/internal/domain"
)

const (
	lowRetention   = 0.5
	lowPerformance = 50
)

// Recommend emits advice for incomplete topics with low retention or low
// performance, in input order. A topic may produce zero, one or two lines.
func Recommend(topics []domain.PrioritizedTopic) []string {
	recommendations := []string{}
	for _, t := range topics {
		if t.Completed {
			continue
		}
		if t.AdjRetention < lowRetention {
			recommendations = append(recommendations, fmt.Sprintf("Revise %s (%s) frequently.", t.Topic, t.Course))
		}
		if t.Performance < lowPerformance {
			recommendations = append(recommendations, fmt.Sprintf("Focus on %s (%s) to improve performance.", t.Topic, t.Course))
		}
	}
	return recommendations
}
