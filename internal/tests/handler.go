package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eqao-prep/backend/internal/generator"
	"github.com/eqao-prep/backend/internal/models"
)

type Handler struct {
	service *Service
	store   *Store
}

func NewHandler(service *Service, store *Store) *Handler {
	return &Handler{service: service, store: store}
}

// Generate handles POST /api/v1/tests/generate (admin only).
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID := r.Context().Value("user_id").(int64)

	resp, err := h.service.GenerateTest(r.Context(), userID, req)
	if err != nil {
		var vErr *generator.ValidationError
		var countErr *generator.InvalidCountError
		var malformedErr *generator.MalformedQuestionError
		switch {
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: vErr.Error()})
		case errors.As(err, &countErr), errors.As(err, &malformedErr):
			writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation produced an invalid batch, please try again"})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate test"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/v1/tests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tests, err := h.store.ListTests(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list tests"})
		return
	}
	if tests == nil {
		tests = []models.Test{}
	}
	writeJSON(w, http.StatusOK, models.TestListResponse{Tests: tests, Total: len(tests)})
}

// Get handles GET /api/v1/tests/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	test, err := h.store.GetTest(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get test"})
		return
	}
	if test == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found"})
		return
	}
	writeJSON(w, http.StatusOK, test)
}

// GetQuestions handles GET /api/v1/tests/{id}/questions. Admins see the
// full questions; candidates get them with answers and explanations
// stripped.
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	questions, err := h.store.GetQuestions(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get questions"})
		return
	}
	if len(questions) == 0 {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found"})
		return
	}

	role, _ := r.Context().Value("role").(string)
	if role == string(models.RoleAdmin) {
		writeJSON(w, http.StatusOK, questions)
		return
	}

	stripped := make([]models.CandidateQuestion, len(questions))
	for i, q := range questions {
		stripped[i] = models.CandidateQuestion{
			ID:               q.ID,
			TestID:           q.TestID,
			QuestionNumber:   q.QuestionNumber,
			QuestionText:     q.QuestionText,
			DifficultyLevel:  q.DifficultyLevel,
			DifficultyBand:   q.DifficultyBand,
			QuestionImageURL: q.QuestionImageURL,
		}
	}
	writeJSON(w, http.StatusOK, stripped)
}

// Delete handles DELETE /api/v1/tests/{id} (admin only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteTest(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete test"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Test not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid test id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
