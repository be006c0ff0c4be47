package domain

// Course is a subject with an exam date and the topics to study for it.
type Course struct {
	Name     string  `json:"name" validate:"required"`
	ExamDate Date    `json:"exam_date" validate:"required"`
	Topics   []Topic `json:"topics" validate:"dive"`
}

// Topic is a unit of study within a course.
// RetentionRate is the retention right after a study session, before decay.
type Topic struct {
	Name          string  `json:"name" validate:"required"`
	Performance   int     `json:"performance" validate:"min=0,max=100"`
	LastStudied   Date    `json:"last_studied" validate:"required"`
	RetentionRate float64 `json:"retention_rate" validate:"min=0,max=1"`
	Completed     bool    `json:"completed"`
}

// PrioritizedTopic is a topic projected with its computed urgency.
// It is recomputed on every prioritization and never stored.
type PrioritizedTopic struct {
	Course        string  `json:"course"`
	Topic         string  `json:"topic"`
	Performance   int     `json:"performance"`
	AdjRetention  float64 `json:"adj_retention"`
	DaysUntilExam int     `json:"days_until_exam"`
	PriorityScore float64 `json:"priority_score"`
	Completed     bool    `json:"completed"`
}

// Allocation assigns study hours for a topic on one day.
type Allocation struct {
	Course string  `json:"course"`
	Topic  string  `json:"topic"`
	Hours  float64 `json:"hours"`
}

// ScheduleDay is the ordered list of allocations for a single day.
type ScheduleDay struct {
	Date        Date         `json:"date"`
	Allocations []Allocation `json:"topics"`
}

// TopicCount returns the number of topics across all courses.
func TopicCount(courses []Course) int {
	n := 0
	for _, c := range courses {
		n += len(c.Topics)
	}
	return n
}
