package planner

import (
	"testing"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prioritized(name string, daysUntilExam int, completed bool) domain.PrioritizedTopic {
	return domain.PrioritizedTopic{
		Course:        "C",
		Topic:         name,
		DaysUntilExam: daysUntilExam,
		Completed:     completed,
	}
}

func TestBuildScheduleEmpty(t *testing.T) {
	assert.Empty(t, BuildSchedule(nil, 4, 2, today))

	done := []domain.PrioritizedTopic{prioritized("a", 5, true), prioritized("b", 3, true)}
	assert.Empty(t, BuildSchedule(done, 4, 2, today))
}

func TestBuildScheduleHorizon(t *testing.T) {
	testCases := []struct {
		name     string
		topics   []domain.PrioritizedTopic
		expected int
	}{
		{
			name:     "nearest incomplete exam",
			topics:   []domain.PrioritizedTopic{prioritized("a", 7, false), prioritized("b", 3, false)},
			expected: 3,
		},
		{
			name:     "completed topics do not shrink the horizon",
			topics:   []domain.PrioritizedTopic{prioritized("a", 7, false), prioritized("b", 1, true)},
			expected: 7,
		},
		{
			name:     "exam today clamps to one day",
			topics:   []domain.PrioritizedTopic{prioritized("a", 0, false)},
			expected: 1,
		},
		{
			name:     "overdue exam clamps to one day",
			topics:   []domain.PrioritizedTopic{prioritized("a", -4, false), prioritized("b", 9, false)},
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			schedule := BuildSchedule(tc.topics, 4, 2, today)
			require.Len(t, schedule, tc.expected)
			for i, day := range schedule {
				assert.Equal(t, today.AddDays(i), day.Date)
			}
		})
	}
}

func TestBuildScheduleAllocation(t *testing.T) {
	topics := []domain.PrioritizedTopic{
		prioritized("a", 3, false),
		prioritized("done", 3, true),
		prioritized("b", 3, false),
		prioritized("c", 3, false),
		prioritized("d", 3, false),
	}

	schedule := BuildSchedule(topics, 5, 2, today)
	require.Len(t, schedule, 3)

	expected := []domain.Allocation{
		{Course: "C", Topic: "a", Hours: 2},
		{Course: "C", Topic: "b", Hours: 2},
		{Course: "C", Topic: "c", Hours: 1},
	}
	for _, day := range schedule {
		assert.Equal(t, expected, day.Allocations, "every day repeats the same allocation")
		for _, a := range day.Allocations {
			assert.LessOrEqual(t, a.Hours, 2.0)
			assert.NotEqual(t, "done", a.Topic)
		}
	}
}

func TestBuildScheduleSmallBudget(t *testing.T) {
	topics := []domain.PrioritizedTopic{prioritized("a", 2, false), prioritized("b", 2, false)}

	schedule := BuildSchedule(topics, 1.5, 2, today)
	require.Len(t, schedule, 2)
	for _, day := range schedule {
		require.Len(t, day.Allocations, 1)
		assert.Equal(t, 1.5, day.Allocations[0].Hours)
	}
}

func TestBuildScheduleZeroBudget(t *testing.T) {
	topics := []domain.PrioritizedTopic{prioritized("a", 2, false)}

	schedule := BuildSchedule(topics, 0, 2, today)
	require.Len(t, schedule, 2)
	for _, day := range schedule {
		assert.Empty(t, day.Allocations)
	}
}

func TestBuildScheduleDefaultsMaxHours(t *testing.T) {
	topics := []domain.PrioritizedTopic{prioritized("a", 1, false), prioritized("b", 1, false)}

	schedule := BuildSchedule(topics, 8, 0, today)
	require.Len(t, schedule, 1)
	for _, a := range schedule[0].Allocations {
		assert.Equal(t, DefaultMaxHoursPerTopic, a.Hours)
	}
}

func TestHorizonDays(t *testing.T) {
	testCases := []struct {
		name     string
		topics   []domain.PrioritizedTopic
		expected int
		ok       bool
	}{
		{name: "empty", topics: nil},
		{name: "only completed", topics: []domain.PrioritizedTopic{{DaysUntilExam: 5, Completed: true}}},
		{
			name:     "nearest incomplete exam",
			topics:   []domain.PrioritizedTopic{{DaysUntilExam: 3, Completed: true}, {DaysUntilExam: 9}, {DaysUntilExam: 6}},
			expected: 6,
			ok:       true,
		},
		{name: "overdue clamps to one", topics: []domain.PrioritizedTopic{{DaysUntilExam: -4}}, expected: 1, ok: true},
		{name: "far future", topics: []domain.PrioritizedTopic{{DaysUntilExam: 2913052}}, expected: 2913052, ok: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			days, ok := HorizonDays(tc.topics)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, days)
		})
	}
}
