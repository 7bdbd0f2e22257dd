package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"quizboard/internal/app"
	"quizboard/internal/domain"
)

// Handler exposes the quiz use cases over JSON/HTTP. Clients poll the results
// endpoint rather than subscribing to a push channel.
type Handler struct {
	service *app.QuizService
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{service: service}
}

// Register mounts all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/quizzes", h.handleQuizzes)
	mux.HandleFunc("/quizzes/", h.handleQuiz)
}

type questionRequest struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	TimerSeconds  int      `json:"timerSeconds"`
}

type createQuizRequest struct {
	Title     string            `json:"title"`
	Type      string            `json:"type"`
	Questions []questionRequest `json:"questions"`
}

type joinRequest struct {
	Name string `json:"name"`
}

type answerRequest struct {
	QuestionID     string  `json:"questionId"`
	SelectedOption int     `json:"selectedOption"`
	ResponseTime   float64 `json:"responseTime"`
}

type submitRequest struct {
	PlayerID string          `json:"playerId"`
	Answers  []answerRequest `json:"answers"`
}

type submitResponse struct {
	Score int `json:"score"`
}

// playQuestion hides the correct answer from players.
type playQuestion struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	TimerSeconds int      `json:"timerSeconds"`
}

type playQuiz struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Type      domain.QuizType `json:"type"`
	Questions []playQuestion  `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	questions := make([]domain.Question, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = domain.Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			TimerSeconds:  q.TimerSeconds,
		}
	}

	quiz, err := h.service.CreateQuiz(r.Context(), req.Title, domain.QuizType(req.Type), questions)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

// handleQuiz routes /quizzes/{id}[/join|/submit|/results].
func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/quizzes/")
	quizID, action, _ := strings.Cut(rest, "/")
	if quizID == "" {
		writeError(w, http.StatusNotFound, "quiz id missing")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getQuiz(w, r, quizID)
	case action == "join" && r.Method == http.MethodPost:
		h.join(w, r, quizID)
	case action == "submit" && r.Method == http.MethodPost:
		h.submit(w, r, quizID)
	case action == "results" && r.Method == http.MethodGet:
		h.results(w, r, quizID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request, quizID string) {
	quiz, err := h.service.GetQuiz(r.Context(), quizID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := playQuiz{ID: quiz.ID, Title: quiz.Title, Type: quiz.Type}
	out.Questions = make([]playQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		out.Questions[i] = playQuestion{
			ID:           q.ID,
			Text:         q.Text,
			Options:      q.Options,
			TimerSeconds: q.TimerSeconds,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request, quizID string) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	player, err := h.service.Join(r.Context(), quizID, req.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, quizID string) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	answers := make([]domain.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = domain.Answer{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
			ResponseTime:   a.ResponseTime,
		}
	}

	response, err := h.service.Submit(r.Context(), quizID, req.PlayerID, answers)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{Score: response.Score})
}

func (h *Handler) results(w http.ResponseWriter, r *http.Request, quizID string) {
	entries, err := h.service.Results(r.Context(), quizID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Unexpected
// errors are logged and surfaced as a generic 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrResponseNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, err.Error())
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
