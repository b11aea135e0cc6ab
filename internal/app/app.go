package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/markdave123-py/Docra/internal/config"
	"github.com/markdave123-py/Docra/internal/core"
	db "github.com/markdave123-py/Docra/internal/core/database"
	"github.com/markdave123-py/Docra/internal/core/extraction_engine"
	"github.com/markdave123-py/Docra/internal/core/ingestion_engine"
	"github.com/markdave123-py/Docra/internal/core/llm"
	objectclient "github.com/markdave123-py/Docra/internal/core/object-client"
	"github.com/markdave123-py/Docra/internal/core/retrieval_engine"
)

type App struct {
	DBClient    core.DbClient
	Pipeline    *ingestion_engine.Pipeline
	Coordinator *retrieval_engine.Coordinator
	Server      *Server

	embedder *llm.GeminiEmbedder
	llm      *llm.GeminiLLM
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	// The archive bucket is optional; without one the pipeline keeps only
	// the extracted text and embeddings.
	var objClient core.ObjectClient
	if cfg.BucketName != "" {
		objClient, err = objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			return nil, err
		}
		log.Println("Object client initialized and ready.")
	}

	geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the llm, %w", err)
	}

	renderer := extraction_engine.NewPopplerRenderer(cfg.RenderDPI)
	engine := extraction_engine.NewTesseractEngine(cfg.OCRLanguages, cfg.RenderDPI)
	extractor := extraction_engine.NewExtractor(renderer, engine, cfg.OCRWorkers)

	chunker, err := ingestion_engine.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	pipeline := ingestion_engine.NewPipeline(dbClient, objClient, geminiEmbedder, extractor, chunker, &ingestion_engine.Config{
		Bucket: cfg.BucketName,
	})

	coordinator := retrieval_engine.NewCoordinator(dbClient, geminiEmbedder, llmProvider, cfg.QueryWorkers, cfg.TopK)

	server := NewServer(cfg, dbClient, pipeline, coordinator)

	return &App{
		DBClient:    dbClient,
		Pipeline:    pipeline,
		Coordinator: coordinator,
		Server:      server,
		embedder:    geminiEmbedder,
		llm:         llmProvider,
	}, nil
}

func (a *App) Close() {
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
