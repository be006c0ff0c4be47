package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/conorfennell/studyplan/internal/ingest"
	"github.com/conorfennell/studyplan/internal/logging"
	"github.com/conorfennell/studyplan/internal/planner"
	"github.com/conorfennell/studyplan/internal/quiz"
	"github.com/conorfennell/studyplan/internal/retention"
	"github.com/go-chi/chi/v5"
)

type planRequest struct {
	Courses              []domain.Course `json:"courses" validate:"unique=Name,dive"`
	DailyHours           *float64        `json:"daily_hours" validate:"omitempty,gt=0,lte=24"`
	UrgencyThresholdDays *int            `json:"urgency_threshold_days" validate:"omitempty,gte=0"`
	MaxHoursPerTopic     *float64        `json:"max_hours_per_topic" validate:"omitempty,gt=0,lte=24"`
}

type forecastRequest struct {
	RetentionRate *float64     `json:"retention_rate" validate:"required,min=0,max=1"`
	LastStudied   *domain.Date `json:"last_studied" validate:"required"`
	HalfLife      *float64     `json:"half_life" validate:"omitempty,gt=0"`
	Days          *int         `json:"days" validate:"omitempty,gt=0,lte=365"`
}

type forecastResponse struct {
	Dates    []domain.Date `json:"dates"`
	Forecast []float64     `json:"forecast"`
}

type quizRequest struct {
	Text         string `json:"text"`
	NumQuestions *int   `json:"num_questions" validate:"omitempty,gt=0,lte=50"`
}

type answerRequest struct {
	Choice string `json:"choice"`
}

// questionView is a question as shown to the learner, without its answer.
type questionView struct {
	ID       string   `json:"id"`
	Position int      `json:"position"`
	Prompt   string   `json:"question"`
	Options  []string `json:"options"`
}

type quizResponse struct {
	Session   domain.QuizSession `json:"session"`
	Questions []questionView     `json:"questions"`
}

type currentResponse struct {
	Session  domain.QuizSession `json:"session"`
	Question questionView       `json:"question"`
}

func newQuestionView(q domain.QuizQuestion, position int) questionView {
	return questionView{ID: q.ID, Position: position, Prompt: q.Prompt, Options: q.Options}
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest(errors.New("request body is empty"))
		}
		return badRequest(fmt.Errorf("decoding request: %w", err))
	}
	if err := domain.Validator().Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	p := *s.Planner
	if req.DailyHours != nil {
		p.DailyHours = *req.DailyHours
	}
	if req.UrgencyThresholdDays != nil {
		p.UrgencyThresholdDays = *req.UrgencyThresholdDays
	}
	if req.MaxHoursPerTopic != nil {
		p.MaxHoursPerTopic = *req.MaxHoursPerTopic
	}

	today := s.Today()
	topics := p.Prioritize(req.Courses, p.UrgencyThresholdDays, today)
	if days, ok := planner.HorizonDays(topics); ok && days > maxScheduleDays {
		handleError(w, r, &APIError{
			Code:    CodeValidation,
			Message: fmt.Sprintf("schedule would span %d days; the nearest exam must be within %d days", days, maxScheduleDays),
			Status:  http.StatusBadRequest,
		})
		return
	}

	result := p.FromTopics(topics, today)
	logging.FromContext(r.Context()).Debug("Plan built",
		"topics", len(result.Topics),
		"days", len(result.Schedule),
		"recommendations", len(result.Recommendations))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	model := retention.DefaultModel()
	if s.Planner != nil && s.Planner.Retention != nil {
		model = &retention.Model{HalfLife: s.Planner.Retention.HalfLife, Days: s.Planner.Retention.Days}
	}
	if req.HalfLife != nil {
		model.HalfLife = *req.HalfLife
	}
	if req.Days != nil {
		model.Days = *req.Days
	}

	today := s.Today()
	forecast := model.Forecast(*req.RetentionRate, *req.LastStudied, today)
	dates := make([]domain.Date, len(forecast))
	for i := range dates {
		dates[i] = today.AddDays(i)
	}
	writeJSON(w, http.StatusOK, forecastResponse{Dates: dates, Forecast: forecast})
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := ingest.CheckText(req.Text); err != nil {
		handleError(w, r, err)
		return
	}

	n := s.NumQuestions
	if req.NumQuestions != nil {
		n = *req.NumQuestions
	}

	questions := quiz.Generate(req.Text, n, s.Rand)
	sess, err := s.Sessions.Start(r.Context(), questions)
	if err != nil {
		handleError(w, r, err)
		return
	}

	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = newQuestionView(q, i)
	}
	writeJSON(w, http.StatusCreated, quizResponse{Session: sess, Questions: views})
}

func (s *Server) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	sess, q, err := s.Sessions.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, currentResponse{Session: sess, Question: newQuestionView(q, sess.Position)})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Sessions.Answer(r.Context(), chi.URLParam(r, "id"), req.Choice)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Sessions.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
