package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/config"
	"matchmycv/backend/internal/logger"
	"matchmycv/backend/internal/services"
)

var ingestable = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newIngestCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newIngestCommand() *cobra.Command {
	var (
		docType   string
		chunkSize int
		overlap   int
		debug     bool
		jsonLogs  bool
	)

	cmd := &cobra.Command{
		Use:   "ingest-guides [files or directories...]",
		Short: "Embed CV writing guidelines into Qdrant for CV reviews",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(jsonLogs, debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			return run(cmd.Context(), log, args, docType, chunkSize, overlap)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&docType, "type", "t", "cv_guide", "document type stored with every chunk")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", services.DefaultChunkSize, "maximum chunk length in characters")
	cmd.Flags().IntVar(&overlap, "overlap", services.DefaultChunkOverlap, "characters repeated between neighbouring chunks")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	cmd.Flags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
	return cmd
}

func run(ctx context.Context, log *zap.Logger, args []string, docType string, chunkSize, overlap int) error {
	cfg := config.Load()
	if !cfg.Qdrant.Enabled() {
		return errors.New("QDRANT_URL is required")
	}
	if cfg.AI.Gemini.APIKey == "" {
		return errors.New("GEMINI_API_KEY is required for embeddings")
	}

	embedder, err := ai.NewGeminiProvider(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, ai.EmbeddingSize, log)
	if err != nil {
		return fmt.Errorf("failed to initialize Qdrant: %w", err)
	}
	if err := store.InitCollection(ctx); err != nil {
		return fmt.Errorf("failed to initialize collection: %w", err)
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no .pdf, .docx or .txt files found")
	}

	ingester := services.NewGuideIngester(services.NewTextExtractor(log), embedder, store, chunkSize, overlap, log)

	var failed int
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("failed to read guide", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		n, err := ingester.Ingest(ctx, path, docType, data)
		if err != nil {
			log.Error("failed to ingest guide", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		log.Info("ingested guide", zap.String("path", path), zap.Int("chunks", n))
	}

	log.Info("ingestion summary",
		zap.Int("successful", len(files)-failed),
		zap.Int("failed", failed),
		zap.String("collection", cfg.Qdrant.Collection),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d guides failed to ingest", failed, len(files))
	}
	return nil
}

// collectFiles expands directories into the ingestable files they contain.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && ingestable[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
