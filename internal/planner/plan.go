package planner

import (
	"github.com/conorfennell/studyplan/internal/domain"
)

// Result bundles everything derived from one set of courses.
type Result struct {
	Topics          []domain.PrioritizedTopic `json:"topics"`
	Schedule        []domain.ScheduleDay      `json:"schedule"`
	Recommendations []string                  `json:"recommendations"`
}

// Plan prioritizes the courses with the planner's settings and derives the
// schedule and recommendations from the same ordering.
func (p *Planner) Plan(courses []domain.Course, today domain.Date) Result {
	return p.FromTopics(p.Prioritize(courses, p.UrgencyThresholdDays, today), today)
}

// FromTopics derives the schedule and recommendations from topics already
// prioritized.
func (p *Planner) FromTopics(topics []domain.PrioritizedTopic, today domain.Date) Result {
	return Result{
		Topics:          topics,
		Schedule:        BuildSchedule(topics, p.DailyHours, p.MaxHoursPerTopic, today),
		Recommendations: Recommend(topics),
	}
}
