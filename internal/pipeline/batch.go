package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/lexscan/internal/model"
)

// DefaultConcurrency is the number of documents checked at once unless
// WithConcurrency says otherwise.
const DefaultConcurrency = 10

// Checker produces a verdict for a title/content pair.
// *compliance.Checker satisfies it.
type Checker interface {
	Check(title, content string) model.Result
}

// BatchProcessor checks many documents concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	// checker scans every document. It must be safe for concurrent use.
	checker Checker

	// concurrency is the maximum number of concurrent checks.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// now stamps CheckedAt.
	now func() time.Time
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent checks.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor that checks documents with checker.
func NewBatchProcessor(checker Checker, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		checker:     checker,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch checks every document and stores the verdict in doc.Result.
// Documents that already carry an Error (for example a read failure) are
// left unchecked. The returned slice is docs, in input order.
//
// When ctx is cancelled, documents not yet started are marked with the
// context error and the context error is returned.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, docs []*model.Document) ([]*model.Document, error) {
	bp.logger.Info("starting batch check",
		"total_documents", len(docs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	err := bp.run(ctx, docs, nil)

	bp.logger.Info("batch check complete",
		"total_documents", len(docs),
		"elapsed", time.Since(startTime),
	)

	if docs == nil {
		docs = []*model.Document{}
	}
	return docs, err
}

// ProcessFiles loads each path with LoadDocument and checks it. A file that
// cannot be read becomes a document with Error set. The result keeps the
// order of paths.
func (bp *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) ([]*model.Document, error) {
	docs := make([]*model.Document, len(paths))
	for i, path := range paths {
		doc, err := LoadDocument(path)
		if err != nil {
			bp.logger.Warn("failed to load document", "document", path, "error", err)
			doc = model.NewDocument(path, "", "")
			doc.Error = err.Error()
		}
		docs[i] = doc
	}
	return bp.ProcessBatch(ctx, docs)
}

// ProcessBatchWithCallback checks documents and calls callback for each
// finished one. This is useful for streaming results.
//
// The callback receives the document and its index in docs. It runs on the
// goroutine that checked the document, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	docs []*model.Document,
	callback func(doc *model.Document, index int),
) error {
	bp.logger.Info("starting batch check with callback",
		"total_documents", len(docs),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, docs, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, docs []*model.Document, callback func(*model.Document, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				doc.Error = ctx.Err().Error()
				return ctx.Err()
			default:
			}

			bp.checkOne(doc, i, len(docs))
			if callback != nil {
				callback(doc, i)
			}
			return nil
		})
	}

	return g.Wait()
}

// checkOne fills in doc.Result unless the document already failed to load.
func (bp *BatchProcessor) checkOne(doc *model.Document, index, total int) {
	if doc.Error != "" {
		return
	}

	bp.logger.Debug("checking document",
		"document", doc.Name,
		"index", index+1,
		"total", total,
	)

	result := bp.checker.Check(doc.Title, doc.Content)
	doc.Result = &result
	doc.CheckedAt = bp.now()

	if doc.Failed() {
		bp.logger.Info("document failed check",
			"document", doc.Name,
			"categories", result.FailedCategories,
			"matches", len(result.Matches),
		)
	}
}
