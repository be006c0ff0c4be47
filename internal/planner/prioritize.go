package planner

import (
	"cmp"
	"slices"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/conorfennell/studyplan/internal/retention"
)

const (
	DefaultUrgencyThresholdDays = 10
	DefaultDailyHours           = 4.0
	DefaultMaxHoursPerTopic     = 2.0

	// urgencyWeight scales each day an exam falls inside the threshold.
	urgencyWeight = 0.1
)

// Planner ranks topics and builds study schedules against a retention model.
type Planner struct {
	Retention            *retention.Model
	UrgencyThresholdDays int
	DailyHours           float64
	MaxHoursPerTopic     float64
}

// New returns a Planner with the default settings.
func New() *Planner {
	return &Planner{
		Retention:            retention.DefaultModel(),
		UrgencyThresholdDays: DefaultUrgencyThresholdDays,
		DailyHours:           DefaultDailyHours,
		MaxHoursPerTopic:     DefaultMaxHoursPerTopic,
	}
}

// Prioritize scores every topic of every course and returns them sorted by
// descending priority. Ties keep their input order.
func (p *Planner) Prioritize(courses []domain.Course, urgencyThresholdDays int, today domain.Date) []domain.PrioritizedTopic {
	model := p.Retention
	if model == nil {
		model = retention.DefaultModel()
	}

	topics := make([]domain.PrioritizedTopic, 0, domain.TopicCount(courses))
	for _, course := range courses {
		daysUntilExam := today.DaysUntil(course.ExamDate)
		urgency := max(0, urgencyThresholdDays-daysUntilExam)
		for _, topic := range course.Topics {
			adj := model.Current(topic.RetentionRate, topic.LastStudied, today)
			topics = append(topics, domain.PrioritizedTopic{
				Course:        course.Name,
				Topic:         topic.Name,
				Performance:   topic.Performance,
				AdjRetention:  adj,
				DaysUntilExam: daysUntilExam,
				PriorityScore: Score(adj, topic.Performance, urgency),
				Completed:     topic.Completed,
			})
		}
	}

	slices.SortStableFunc(topics, func(a, b domain.PrioritizedTopic) int {
		return cmp.Compare(b.PriorityScore, a.PriorityScore)
	})
	return topics
}

// Score combines the retention gap, the performance gap and exam urgency.
func Score(adjRetention float64, performance, urgency int) float64 {
	return (1 - adjRetention) + (1 - float64(performance)/100) + float64(urgency)*urgencyWeight
}
