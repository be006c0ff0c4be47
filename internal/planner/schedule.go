package planner

import (
	"github.com/conorfennell/studyplan/internal/domain"
)

// BuildSchedule packs incomplete topics into daily budgets, first-fit in
// priority order, for every day until the nearest exam (at least one day).
// Every day receives the same allocations. It returns an empty schedule
// when no incomplete topics remain.
func BuildSchedule(topics []domain.PrioritizedTopic, dailyHours, maxHoursPerTopic float64, today domain.Date) []domain.ScheduleDay {
	if maxHoursPerTopic <= 0 {
		maxHoursPerTopic = DefaultMaxHoursPerTopic
	}

	horizon, ok := HorizonDays(topics)
	if !ok {
		return []domain.ScheduleDay{}
	}

	schedule := make([]domain.ScheduleDay, 0, horizon)
	for day := range horizon {
		schedule = append(schedule, domain.ScheduleDay{
			Date:        today.AddDays(day),
			Allocations: allocateDay(topics, dailyHours, maxHoursPerTopic),
		})
	}
	return schedule
}

// HorizonDays returns the number of days BuildSchedule covers:
// max(1, min days-until-exam) over incomplete topics. Overdue exams count
// toward the minimum. ok is false when every topic is completed.
func HorizonDays(topics []domain.PrioritizedTopic) (int, bool) {
	horizon, found := 0, false
	for _, t := range topics {
		if t.Completed {
			continue
		}
		if !found || t.DaysUntilExam < horizon {
			horizon = t.DaysUntilExam
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return max(1, horizon), true
}

func allocateDay(topics []domain.PrioritizedTopic, dailyHours, maxHoursPerTopic float64) []domain.Allocation {
	allocations := []domain.Allocation{}
	remaining := dailyHours
	for _, t := range topics {
		if t.Completed {
			continue
		}
		if remaining <= 0 {
			break
		}
		hours := min(maxHoursPerTopic, remaining)
		allocations = append(allocations, domain.Allocation{
			Course: t.Course,
			Topic:  t.Topic,
			Hours:  hours,
		})
		remaining -= hours
	}
	return allocations
}
