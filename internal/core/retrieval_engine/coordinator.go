package retrieval_engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Docra/internal/core"
	"github.com/markdave123-py/Docra/internal/models"
)

const systemPrompt = "You are an intelligent assistant answering based only on the given document content. If unsure, say 'I cannot find this in the document.'"

// Coordinator dispatches question answering workers concurrently across a
// batch of (pdf_id, question) pairs and reassembles the answers in batch
// order.
//
// workers: concurrency cap for the pool (e.g., 4).
// topK:    retrieved chunks per question.
type Coordinator struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
	workers  int
	topK     int
}

func NewCoordinator(db core.DbClient, emb core.EmbeddingProvider, llm core.LLMProvider, workers, topK int) *Coordinator {
	if workers <= 0 {
		workers = 4
	}
	if topK <= 0 {
		topK = 5
	}
	return &Coordinator{db: db, embedder: emb, llm: llm, workers: workers, topK: topK}
}

// AnswerBatch returns one answer per question, aligned 1:1 with the batch
// order regardless of worker completion order: each worker writes into the
// slot its position owns. Any worker failure fails the whole batch with the
// position tagged — a caller correlating answers to questions by position
// must never receive a misaligned sequence. An empty batch yields an empty
// sequence.
func (c *Coordinator) AnswerBatch(ctx context.Context, questions []models.Question) ([]string, error) {
	answers := make([]string, len(questions))
	if len(questions) == 0 {
		return answers, nil
	}

	for _, q := range questions {
		if q.Position < 0 || q.Position >= len(questions) {
			return nil, fmt.Errorf("question position %d out of range [0, %d)", q.Position, len(questions))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, q := range questions {
		g.Go(func() error {
			answer, err := c.answerOne(gctx, q.PDFID, q.Text)
			if err != nil {
				return fmt.Errorf("question %d: %w", q.Position, err)
			}
			answers[q.Position] = answer
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

// answerOne embeds the question, retrieves the top chunks scoped to the
// given document only, and conditions the answer generation on them.
func (c *Coordinator) answerOne(ctx context.Context, pdfID, question string) (string, error) {
	vecs, err := c.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) == 0 {
		return "", fmt.Errorf("embed question: empty response")
	}

	chunks, err := c.db.SearchDocumentChunks(ctx, pdfID, vecs[0], c.topK)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}

	var sb strings.Builder
	for _, ch := range chunks {
		sb.WriteString(ch.Text)
		sb.WriteString("\n---\n")
	}

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", sb.String(), question)

	answer, err := c.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return answer, nil
}
