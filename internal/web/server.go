// Package web serves the planner and quizzes as a JSON API.
package web

import (
	"net/http"
	"time"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/conorfennell/studyplan/internal/planner"
	"github.com/conorfennell/studyplan/internal/quiz"
	"github.com/conorfennell/studyplan/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// maxBodyBytes bounds request bodies, which carry quiz text.
	maxBodyBytes = 1 << 20

	// maxScheduleDays caps the days one plan request may schedule.
	maxScheduleDays = 3660

	quizRateEvery = time.Second / 10
	quizRateBurst = 20
)

// Server holds the dependencies for the HTTP server.
// Planner settings are the defaults a request may override.
type Server struct {
	Planner      *planner.Planner
	Sessions     *session.Service
	Rand         quiz.Random
	NumQuestions int
	Today        func() domain.Date

	router  chi.Router
	limiter *rateLimiter
}

// NewServer creates and configures a new server. r must be safe for
// concurrent use, such as one from quiz.NewSafeRandom.
func NewServer(p *planner.Planner, sessions *session.Service, r quiz.Random) *Server {
	s := &Server{
		Planner:      p,
		Sessions:     sessions,
		Rand:         r,
		NumQuestions: quiz.DefaultQuestions,
		Today:        domain.Today,
		limiter:      newRateLimiter(quizRateEvery, quizRateBurst),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/plan", s.handlePlan)
	r.Post("/forecast", s.handleForecast)
	r.Route("/quiz", func(r chi.Router) {
		r.With(s.rateLimit).Post("/", s.handleCreateQuiz)
		r.Get("/{id}", s.handleCurrentQuestion)
		r.Post("/{id}/answer", s.handleAnswer)
		r.Get("/{id}/summary", s.handleSummary)
	})

	s.router = r
}
