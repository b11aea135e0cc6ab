package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/Docra/internal/core"
)

type DocumentHandler struct {
	dbclient core.DbClient
}

func NewDocumentHandler(dbclient core.DbClient) *DocumentHandler {
	return &DocumentHandler{dbclient: dbclient}
}

// List returns the metadata rows of every ingested document.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	documents, err := h.dbclient.ListDocuments(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, documents)
}

// writeJSON is the single response writer for all handlers.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
