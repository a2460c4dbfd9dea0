package attempts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/eqao-prep/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Start handles POST /api/v1/attempts.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TestID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "test_id is required"})
		return
	}

	userID := r.Context().Value("user_id").(int64)

	attempt, err := h.store.StartAttempt(r.Context(), userID, req.TestID)
	if err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to start attempt"})
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

// Submit handles POST /api/v1/attempts/{id}/submit. Answers are graded
// server-side against the stored correct answers; missing questions count
// as incorrect.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID := r.Context().Value("user_id").(int64)

	attempt, err := h.store.GetAttempt(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load attempt"})
		return
	}
	if attempt == nil || attempt.UserID != userID {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Attempt not found"})
		return
	}
	if attempt.SubmittedAt != nil {
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Attempt already submitted"})
		return
	}

	answers, err := h.store.QuestionAnswers(r.Context(), attempt.TestID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to grade attempt"})
		return
	}

	score := 0
	responses := make([]models.Response, 0, len(req.Answers))
	seen := make(map[int64]bool)
	for _, a := range req.Answers {
		correct, exists := answers[a.QuestionID]
		if !exists || seen[a.QuestionID] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Answer references a question outside this test"})
			return
		}
		seen[a.QuestionID] = true

		isCorrect := AnswersMatch(correct, a.Answer)
		if isCorrect {
			score++
		}
		responses = append(responses, models.Response{
			QuestionID:    a.QuestionID,
			StudentAnswer: a.Answer,
			IsCorrect:     isCorrect,
		})
	}

	graded, saved, err := h.store.SubmitAttempt(r.Context(), attempt.ID, responses, score)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit attempt"})
		return
	}

	writeJSON(w, http.StatusOK, models.SubmitAttemptResponse{
		Attempt:   *graded,
		Responses: saved,
		Total:     len(answers),
	})
}

// List handles GET /api/v1/attempts: candidates see their own attempts,
// admins see everyone's.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	role, _ := r.Context().Value("role").(string)

	var attempts []models.Attempt
	var err error
	if role == string(models.RoleAdmin) {
		attempts, err = h.store.ListAllAttempts(r.Context())
	} else {
		attempts, err = h.store.ListAttempts(r.Context(), userID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list attempts"})
		return
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	writeJSON(w, http.StatusOK, attempts)
}

// Get handles GET /api/v1/attempts/{id}: the attempt, its graded
// responses, and any admin feedback. Admins can read any attempt;
// candidates only their own.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	attempt, err := h.store.GetAttempt(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load attempt"})
		return
	}

	userID := r.Context().Value("user_id").(int64)
	role, _ := r.Context().Value("role").(string)
	if attempt == nil || (attempt.UserID != userID && role != string(models.RoleAdmin)) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Attempt not found"})
		return
	}

	responses, err := h.store.GetResponses(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load responses"})
		return
	}
	feedback, err := h.store.GetFeedback(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load feedback"})
		return
	}
	if responses == nil {
		responses = []models.Response{}
	}
	if feedback == nil {
		feedback = []models.AdminFeedback{}
	}

	writeJSON(w, http.StatusOK, models.AttemptDetail{
		Attempt:   *attempt,
		Responses: responses,
		Feedback:  feedback,
	})
}

// AddFeedback handles POST /api/v1/attempts/{id}/feedback (admin only).
func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.FeedbackText) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "feedback_text is required"})
		return
	}

	attempt, err := h.store.GetAttempt(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load attempt"})
		return
	}
	if attempt == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Attempt not found"})
		return
	}

	userID := r.Context().Value("user_id").(int64)
	feedback, err := h.store.AddFeedback(r.Context(), id, userID, strings.TrimSpace(req.FeedbackText))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to add feedback"})
		return
	}
	writeJSON(w, http.StatusCreated, feedback)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid attempt id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
