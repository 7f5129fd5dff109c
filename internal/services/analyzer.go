package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/logger"
	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
)

var (
	ErrStructureFailed = errors.New("could not structure CV content")
	ErrAIUnavailable   = errors.New("ai provider unavailable")
)

// AIObserver receives the outcome of every completion.
type AIObserver interface {
	ObserveAI(provider, operation, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAI(string, string, string, time.Duration) {}

type AnalyzerOptions struct {
	Temperature float64
	MaxTokens   int
	// GuideLimit is how many guidance chunks a CV review retrieves.
	GuideLimit int
}

type AnalyzerService interface {
	StructureCV(ctx context.Context, userID uuid.UUID, cvText string) (*models.Resume, error)
	AnalyzeMatch(ctx context.Context, userID uuid.UUID, cvText string, target *models.JobTarget) (*MatchAnalysis, error)
	ReviewCV(ctx context.Context, cvAnalysisID uuid.UUID) error
}

// MatchAnalysis is a parsed match together with the completion it came from.
type MatchAnalysis struct {
	MatchResult
	Provider string
	Model    string
	Raw      string
}

type analyzerService struct {
	provider      ai.Provider
	embedder      ai.Embedder
	guides        GuideStore
	usage         UsageService
	cvRepo        repositories.CVAnalysisRepository
	docRepo       repositories.DocumentRepository
	promptBuilder *PromptBuilder
	observer      AIObserver
	opts          AnalyzerOptions
	logger        *zap.Logger
}

// NewAnalyzerService wires the AI operations. embedder and guides may be nil,
// in which case CV reviews run without retrieved guidance.
func NewAnalyzerService(
	provider ai.Provider,
	embedder ai.Embedder,
	guides GuideStore,
	usage UsageService,
	cvRepo repositories.CVAnalysisRepository,
	docRepo repositories.DocumentRepository,
	observer AIObserver,
	opts AnalyzerOptions,
	log *zap.Logger,
) AnalyzerService {
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.GuideLimit <= 0 {
		opts.GuideLimit = 4
	}
	return &analyzerService{
		provider:      provider,
		embedder:      embedder,
		guides:        guides,
		usage:         usage,
		cvRepo:        cvRepo,
		docRepo:       docRepo,
		promptBuilder: NewPromptBuilder(),
		observer:      observer,
		opts:          opts,
		logger:        log,
	}
}

func (a *analyzerService) complete(ctx context.Context, operation, system, prompt string) (*ai.Completion, error) {
	start := time.Now()
	out, err := a.provider.Complete(ctx, ai.Request{
		System:      system,
		Prompt:      prompt,
		Temperature: a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
		JSON:        true,
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	a.observer.ObserveAI(a.provider.Name(), operation, outcome, time.Since(start))

	if err != nil {
		a.logger.Error("ai completion failed",
			zap.String("operation", operation),
			zap.String("provider", a.provider.Name()),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}

	a.logger.Debug("ai completion",
		zap.String("operation", operation),
		zap.Int("prompt_chars", len(prompt)),
		zap.String("response", logger.Truncate(out.Text, 500)),
	)
	return out, nil
}

// completeMetered runs a completion inside a usage reservation: the slot is
// released when the call fails and filled with token counts otherwise.
func (a *analyzerService) completeMetered(ctx context.Context, userID uuid.UUID, kind models.UsageKind, system, prompt string) (*ai.Completion, error) {
	record, err := a.usage.Reserve(userID, kind, a.provider.Name())
	if err != nil {
		return nil, err
	}

	out, err := a.complete(ctx, string(kind), system, prompt)
	if err != nil {
		if rerr := a.usage.Release(record); rerr != nil {
			a.logger.Warn("failed to release usage", zap.String("user_id", userID.String()), zap.Error(rerr))
		}
		return nil, err
	}

	if err := a.usage.Commit(record, out); err != nil {
		a.logger.Warn("failed to record usage", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return out, nil
}

func (a *analyzerService) StructureCV(ctx context.Context, userID uuid.UUID, cvText string) (*models.Resume, error) {
	out, err := a.completeMetered(ctx, userID, models.UsageStructure, structureSystem, a.promptBuilder.BuildStructurePrompt(cvText))
	if err != nil {
		return nil, err
	}

	var resume models.Resume
	if err := ai.DecodeJSON(out.Text, &resume); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructureFailed, err)
	}
	resume.Normalize()
	if resume.Empty() {
		return nil, ErrStructureFailed
	}

	return &resume, nil
}

func (a *analyzerService) AnalyzeMatch(ctx context.Context, userID uuid.UUID, cvText string, target *models.JobTarget) (*MatchAnalysis, error) {
	out, err := a.completeMetered(ctx, userID, models.UsageAnalysis, matchSystem, a.promptBuilder.BuildMatchPrompt(cvText, target))
	if err != nil {
		return nil, err
	}

	result := ParseMatchResponse(out.Text)
	if result.Fallback {
		a.logger.Warn("match response was not JSON, used text fallback",
			zap.String("user_id", userID.String()),
			zap.String("job_target_id", target.ID.String()),
		)
	}

	return &MatchAnalysis{
		MatchResult: result,
		Provider:    a.provider.Name(),
		Model:       out.Model,
		Raw:         out.Text,
	}, nil
}

// ReviewCV runs a queued CV analysis to completion, persisting either the
// result or the failure message.
func (a *analyzerService) ReviewCV(ctx context.Context, cvAnalysisID uuid.UUID) error {
	if err := a.cvRepo.UpdateStatus(cvAnalysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	a.logger.Info("starting cv analysis", zap.String("cv_analysis_id", cvAnalysisID.String()))

	job, err := a.cvRepo.FindByID(cvAnalysisID)
	if err != nil {
		a.fail(cvAnalysisID, err.Error())
		return fmt.Errorf("failed to get cv analysis: %w", err)
	}

	doc, err := a.docRepo.FindByID(job.UserID, job.DocumentID)
	if err != nil {
		a.fail(cvAnalysisID, fmt.Sprintf("CV document not found: %v", err))
		return fmt.Errorf("failed to get CV document: %w", err)
	}

	guidance := a.retrieveGuidance(ctx, doc.ExtractedText)

	out, err := a.completeMetered(ctx, job.UserID, models.UsageCVAnalysis, reviewSystem, a.promptBuilder.BuildReviewPrompt(doc.ExtractedText, guidance))
	if err != nil {
		a.fail(cvAnalysisID, fmt.Sprintf("Failed to review CV: %v", err))
		return fmt.Errorf("failed to review CV: %w", err)
	}

	review := ParseReviewResponse(out.Text)
	if err := a.cvRepo.UpdateResult(cvAnalysisID, &repositories.CVAnalysisResult{
		OverallScore: review.OverallScore,
		Strengths:    review.Strengths,
		Weaknesses:   review.Weaknesses,
		Suggestions:  review.Suggestions,
	}); err != nil {
		a.fail(cvAnalysisID, fmt.Sprintf("Failed to save results: %v", err))
		return fmt.Errorf("failed to save results: %w", err)
	}

	a.logger.Info("cv analysis completed",
		zap.String("cv_analysis_id", cvAnalysisID.String()),
		zap.Int("score", review.OverallScore),
		zap.Bool("fallback", review.Fallback),
	)
	return nil
}

func (a *analyzerService) fail(id uuid.UUID, msg string) {
	if err := a.cvRepo.UpdateError(id, msg); err != nil {
		a.logger.Error("failed to persist cv analysis error", zap.String("cv_analysis_id", id.String()), zap.Error(err))
	}
}

// retrieveGuidance returns formatted guideline chunks, or "" when retrieval is
// not configured or fails.
func (a *analyzerService) retrieveGuidance(ctx context.Context, cvText string) string {
	if a.embedder == nil || a.guides == nil {
		return ""
	}

	embedding, err := a.embedder.Embed(ctx, a.promptBuilder.BuildRetrievalQuery(cvText))
	if err != nil {
		a.logger.Warn("failed to embed retrieval query", zap.Error(err))
		return ""
	}

	results, err := a.guides.SearchSimilar(ctx, embedding, "", a.opts.GuideLimit)
	if err != nil {
		a.logger.Warn("failed to search guidance", zap.Error(err))
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	return FormatRAGContext(results)
}
