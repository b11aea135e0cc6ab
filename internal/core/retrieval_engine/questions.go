package retrieval_engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/markdave123-py/Docra/internal/models"
)

// ParseQuestionBatch decodes the {"pdf_id": "question", ...} object into an
// ordered batch. Go maps lose key order, so the object is walked with the
// token stream, keeping the positions the client implied. Repeated keys stay
// in the batch as separate entries.
func ParseQuestionBatch(raw json.RawMessage) ([]models.Question, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("questions must be an object, got %v", tok)
	}

	var out []models.Question
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("questions: %w", err)
		}
		pdfID, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("questions: unexpected key %v", keyTok)
		}

		var text string
		if err := dec.Decode(&text); err != nil {
			return nil, fmt.Errorf("question for %q must be a string: %w", pdfID, err)
		}

		out = append(out, models.Question{Position: len(out), PDFID: pdfID, Text: text})
	}
	return out, nil
}
