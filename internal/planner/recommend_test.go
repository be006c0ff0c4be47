package planner

import (
	"testing"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRecommend(t *testing.T) {
	testCases := []struct {
		name     string
		topic    domain.PrioritizedTopic
		expected []string
	}{
		{
			name:     "healthy topic",
			topic:    domain.PrioritizedTopic{Course: "Bio", Topic: "Cells", AdjRetention: 0.8, Performance: 80},
			expected: []string{},
		},
		{
			name:     "low retention",
			topic:    domain.PrioritizedTopic{Course: "Bio", Topic: "Cells", AdjRetention: 0.3, Performance: 80},
			expected: []string{"Revise Cells (Bio) frequently."},
		},
		{
			name:     "low performance",
			topic:    domain.PrioritizedTopic{Course: "Bio", Topic: "Cells", AdjRetention: 0.5, Performance: 49},
			expected: []string{"Focus on Cells (Bio) to improve performance."},
		},
		{
			name:  "both",
			topic: domain.PrioritizedTopic{Course: "Bio", Topic: "Cells", AdjRetention: 0.1, Performance: 10},
			expected: []string{
				"Revise Cells (Bio) frequently.",
				"Focus on Cells (Bio) to improve performance.",
			},
		},
		{
			name:     "completed topics are skipped",
			topic:    domain.PrioritizedTopic{Course: "Bio", Topic: "Cells", AdjRetention: 0.1, Performance: 10, Completed: true},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Recommend([]domain.PrioritizedTopic{tc.topic}))
		})
	}
}

func TestRecommendKeepsInputOrder(t *testing.T) {
	topics := []domain.PrioritizedTopic{
		{Course: "A", Topic: "first", AdjRetention: 0.1, Performance: 90},
		{Course: "B", Topic: "second", AdjRetention: 0.9, Performance: 10},
	}
	assert.Equal(t, []string{
		"Revise first (A) frequently.",
		"Focus on second (B) to improve performance.",
	}, Recommend(topics))
}
