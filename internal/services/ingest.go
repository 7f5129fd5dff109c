package services

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"matchmycv/backend/internal/ai"
)

// GuideIngester loads guideline documents into the guide store used by CV reviews.
type GuideIngester struct {
	extractor TextExtractor
	chunker   TextChunker
	embedder  ai.Embedder
	store     GuideStore
	chunkSize int
	overlap   int
	logger    *zap.Logger
}

func NewGuideIngester(extractor TextExtractor, embedder ai.Embedder, store GuideStore, chunkSize, overlap int, logger *zap.Logger) *GuideIngester {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	return &GuideIngester{
		extractor: extractor,
		chunker:   NewTextChunker(),
		embedder:  embedder,
		store:     store,
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    logger,
	}
}

// Ingest replaces every chunk previously stored for the file's base name and
// returns how many chunks were written.
func (g *GuideIngester) Ingest(ctx context.Context, filename, docType string, data []byte) (int, error) {
	source := filepath.Base(filename)

	content, err := g.extractor.Extract(filename, data)
	if err != nil {
		return 0, fmt.Errorf("failed to extract %s: %w", source, err)
	}

	chunks := g.chunker.ChunkText(content.Text, g.chunkSize, g.overlap)
	g.logger.Info("chunked guide",
		zap.String("source", source),
		zap.Int("pages", content.PageCount),
		zap.Int("chars", len(content.Text)),
		zap.Int("chunks", len(chunks)),
	)

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := g.embedder.Embed(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d of %s: %w", i+1, source, err)
		}
		embeddings = append(embeddings, embedding)
	}

	if err := g.store.DeleteSource(ctx, source); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks of %s: %w", source, err)
	}
	if err := g.store.UpsertChunks(ctx, source, docType, chunks, embeddings); err != nil {
		return 0, fmt.Errorf("failed to store %s: %w", source, err)
	}
	return len(chunks), nil
}
