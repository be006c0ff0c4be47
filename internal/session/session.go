package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/conorfennell/studyplan/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("quiz session not found")
	ErrFinished    = errors.New("quiz session finished")
	ErrNoQuestions = errors.New("quiz has no questions")
)

// Store persists quiz sessions. *storage.DB implements it.
type Store interface {
	CreateSession(ctx context.Context, session domain.QuizSession, questions []domain.QuizQuestion) error
	FindSession(ctx context.Context, id string) (*domain.QuizSession, error)
	FindQuestion(ctx context.Context, sessionID string, position int) (*domain.QuizQuestion, error)
	RecordAnswer(ctx context.Context, sessionID string, position int, choice string, correct bool, answeredAt time.Time) error
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Result is the outcome of answering one question.
type Result struct {
	Correct bool               `json:"correct"`
	Answer  string             `json:"answer"`
	Session domain.QuizSession `json:"session"`
}

// Summary reports the score of a session.
type Summary struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Feedback   string  `json:"feedback"`
	Finished   bool    `json:"finished"`
}

// Service runs quizzes one question at a time.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Start stores questions under a new session.
func (s *Service) Start(ctx context.Context, questions []domain.QuizQuestion) (domain.QuizSession, error) {
	if len(questions) == 0 {
		return domain.QuizSession{}, ErrNoQuestions
	}
	session := domain.QuizSession{
		ID:        uuid.NewString(),
		Total:     len(questions),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateSession(ctx, session, questions); err != nil {
		return domain.QuizSession{}, fmt.Errorf("starting quiz: %w", err)
	}
	slog.Info("Quiz session started", "session", session.ID, "questions", session.Total)
	return session, nil
}

// Current returns the session and the question waiting for an answer.
func (s *Service) Current(ctx context.Context, id string) (domain.QuizSession, domain.QuizQuestion, error) {
	session, err := s.find(ctx, id)
	if err != nil {
		return domain.QuizSession{}, domain.QuizQuestion{}, err
	}
	if session.Finished() {
		return session, domain.QuizQuestion{}, ErrFinished
	}
	q, err := s.store.FindQuestion(ctx, id, session.Position)
	if err != nil {
		return session, domain.QuizQuestion{}, err
	}
	if q == nil {
		return session, domain.QuizQuestion{}, fmt.Errorf("session %s: question %d: %w", id, session.Position, ErrNotFound)
	}
	return session, *q, nil
}

// Answer checks choice against the current question and moves on.
func (s *Service) Answer(ctx context.Context, id, choice string) (Result, error) {
	session, q, err := s.Current(ctx, id)
	if err != nil {
		return Result{}, err
	}

	correct := choice == q.Answer
	if err := s.store.RecordAnswer(ctx, id, session.Position, choice, correct, s.now().UTC()); err != nil {
		if errors.Is(err, storage.ErrStalePosition) {
			return Result{}, fmt.Errorf("session %s: question %d already answered: %w", id, session.Position, err)
		}
		return Result{}, err
	}

	session.Position++
	if correct {
		session.Score++
	}
	slog.Debug("Quiz answer recorded", "session", id, "correct", correct, "position", session.Position)
	return Result{Correct: correct, Answer: q.Answer, Session: session}, nil
}

// Summary returns the score so far and feedback for it.
func (s *Service) Summary(ctx context.Context, id string) (Summary, error) {
	session, err := s.find(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	pct := Percentage(session.Score, session.Total)
	return Summary{
		Score:      session.Score,
		Total:      session.Total,
		Percentage: pct,
		Feedback:   Feedback(pct),
		Finished:   session.Finished(),
	}, nil
}

// Prune deletes sessions older than maxAge.
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.store.DeleteSessionsBefore(ctx, s.now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("pruning quiz sessions: %w", err)
	}
	if n > 0 {
		slog.Info("Pruned quiz sessions", "deleted", n)
	}
	return n, nil
}

func (s *Service) find(ctx context.Context, id string) (domain.QuizSession, error) {
	session, err := s.store.FindSession(ctx, id)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if session == nil {
		return domain.QuizSession{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return *session, nil
}

// Percentage returns score as a percentage of total, or 0 for an empty quiz.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// Feedback grades a percentage.
func Feedback(pct float64) string {
	switch {
	case pct >= 80:
		return "Excellent work! You have a strong understanding of the material."
	case pct >= 60:
		return "Good job! Consider reviewing the topics you missed."
	default:
		return "Keep studying! Review the material and try again."
	}
}
