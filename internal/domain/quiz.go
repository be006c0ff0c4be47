package domain

import "time"

// QuizQuestion is a multiple-choice question. Options holds the answer and
// three distractors in random order.
type QuizQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// QuizSession tracks progress through a generated quiz.
type QuizSession struct {
	ID        string    `json:"id"`
	Position  int       `json:"position"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Finished reports whether every question has been answered.
func (s QuizSession) Finished() bool {
	return s.Position >= s.Total
}
