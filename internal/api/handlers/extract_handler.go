package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// Ingestor is the slice of the ingestion pipeline the handler needs.
type Ingestor interface {
	IngestAll(ctx context.Context, urls []string) (map[string]string, error)
}

type ExtractHandler struct {
	pipeline Ingestor
}

func NewExtractHandler(pipeline Ingestor) *ExtractHandler {
	return &ExtractHandler{pipeline: pipeline}
}

type ExtractRequest struct {
	Documents []string `json:"documents"`
}

// Extract ingests every document URL in the request and returns the mapping
// from generated pdf_id to display filename. A failing document does not
// abort its siblings; on any failure the response is a 500 carrying both the
// error and the partial mapping, so callers infer partial success from the
// mapping's membership.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Documents) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "'documents' field is required"})
		return
	}

	uploaded, err := h.pipeline.IngestAll(r.Context(), req.Documents)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":          err.Error(),
			"Files uploaded": uploaded,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"Files uploaded": uploaded})
}
