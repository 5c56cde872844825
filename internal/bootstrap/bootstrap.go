// Package bootstrap wires infrastructure into the use cases shared by the
// api and worker binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/avilov/docsearch/internal/config"
	"github.com/avilov/docsearch/internal/core/domain"
	"github.com/avilov/docsearch/internal/core/ports"
	"github.com/avilov/docsearch/internal/core/usecase"
	"github.com/avilov/docsearch/internal/infrastructure/extractor/docx"
	"github.com/avilov/docsearch/internal/infrastructure/extractor/imagefile"
	"github.com/avilov/docsearch/internal/infrastructure/extractor/pdfdoc"
	"github.com/avilov/docsearch/internal/infrastructure/extractor/spreadsheet"
	"github.com/avilov/docsearch/internal/infrastructure/queue/nats"
	"github.com/avilov/docsearch/internal/infrastructure/repository/postgres"
	"github.com/avilov/docsearch/internal/infrastructure/resilience"
	"github.com/avilov/docsearch/internal/infrastructure/semantic"
	"github.com/avilov/docsearch/internal/infrastructure/storage/localfs"
	"github.com/avilov/docsearch/internal/infrastructure/vision"
)

type App struct {
	Config config.Config

	Queue *nats.Queue
	Repo  ports.DocumentRepository

	IngestUC ports.DocumentIngestor
	QueryUC  ports.DocumentQueryService
	IndexUC  ports.DocumentIndexer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	visionClient := vision.New(cfg.VisionURL, vision.Options{
		Timeout:            time.Duration(cfg.VisionTimeoutSeconds) * time.Second,
		OCRScale:           cfg.OCRScale,
		ResilienceExecutor: executor,
	})
	classifier, err := vision.NewClassifier(visionClient, cfg.InferenceWorkers)
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}

	semanticClient := semantic.New(cfg.SemanticURL, semantic.Options{
		Timeout:            time.Duration(cfg.SemanticTimeoutSeconds) * time.Second,
		ResilienceExecutor: executor,
	})

	extractors := map[domain.Strategy]ports.TextExtractor{
		domain.StrategyDOCX:        docx.New(),
		domain.StrategyPDF:         pdfdoc.New(visionClient),
		domain.StrategyImage:       imagefile.New(visionClient),
		domain.StrategySpreadsheet: spreadsheet.New(),
	}

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, extractors, classifier, queue)
	queryUC := usecase.NewQueryUseCase(repo, storage, semanticClient)
	indexUC := usecase.NewIndexDocumentUseCase(repo, semanticClient)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC: ingestUC,
		QueryUC:  queryUC,
		IndexUC:  indexUC,

		closeFn: func() {
			queue.Close()
			classifier.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
