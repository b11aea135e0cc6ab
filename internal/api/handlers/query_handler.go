package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/Docra/internal/core/retrieval_engine"
	"github.com/markdave123-py/Docra/internal/models"
)

// Answerer is the slice of the retrieval coordinator the handler needs.
type Answerer interface {
	AnswerBatch(ctx context.Context, questions []models.Question) ([]string, error)
}

type QueryHandler struct {
	coordinator Answerer
}

func NewQueryHandler(coordinator Answerer) *QueryHandler {
	return &QueryHandler{coordinator: coordinator}
}

type QueryRequest struct {
	Questions json.RawMessage `json:"questions"`
}

// Query answers a batch of (pdf_id, question) pairs. The answers come back
// in the order the questions appeared in the request object; an empty batch
// yields an empty array, not an error.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Questions) == 0 || string(req.Questions) == "null" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "'questions' field is required"})
		return
	}

	batch, err := retrieval_engine.ParseQuestionBatch(req.Questions)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	answers, err := h.coordinator.AnswerBatch(r.Context(), batch)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"answers": answers})
}
