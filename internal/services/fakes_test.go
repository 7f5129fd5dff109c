package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeUsageRepo struct {
	mu      sync.Mutex
	records []models.UsageRecord
}

func (f *fakeUsageRepo) Create(record *models.UsageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeUsageRepo) UpdateTokens(record *models.UsageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == record.ID {
			f.records[i].Model = record.Model
			f.records[i].InputTokens = record.InputTokens
			f.records[i].OutputTokens = record.OutputTokens
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeUsageRepo) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUsageRepo) CountSince(userID uuid.UUID, since time.Time) (map[models.UsageKind]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[models.UsageKind]int64{}
	for _, r := range f.records {
		if r.UserID == userID && !r.CreatedAt.Before(since) {
			out[r.Kind]++
		}
	}
	return out, nil
}

type fakeDocumentRepo struct {
	docs map[uuid.UUID]*models.Document
}

func (f *fakeDocumentRepo) Create(doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocumentRepo) FindByID(userID, id uuid.UUID) (*models.Document, error) {
	if d, ok := f.docs[id]; ok && d.UserID == userID {
		return d, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeDocumentRepo) ListByUser(userID uuid.UUID) ([]models.Document, error) {
	var out []models.Document
	for _, d := range f.docs {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) Delete(userID, id uuid.UUID) error {
	if d, ok := f.docs[id]; ok && d.UserID == userID {
		delete(f.docs, id)
		return nil
	}
	return repositories.ErrNotFound
}

type fakeCVAnalysisRepo struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*models.CVAnalysis
	statuses  []models.CVAnalysisStatus
	resultErr error
}

func newFakeCVAnalysisRepo() *fakeCVAnalysisRepo {
	return &fakeCVAnalysisRepo{jobs: map[uuid.UUID]*models.CVAnalysis{}}
}

func (f *fakeCVAnalysisRepo) Create(job *models.CVAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = models.StatusQueued
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeCVAnalysisRepo) get(id uuid.UUID) (*models.CVAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[id]; ok {
		copied := *j
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCVAnalysisRepo) FindByID(id uuid.UUID) (*models.CVAnalysis, error) {
	return f.get(id)
}

func (f *fakeCVAnalysisRepo) FindForUser(userID, id uuid.UUID) (*models.CVAnalysis, error) {
	j, err := f.get(id)
	if err != nil || j.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return j, nil
}

func (f *fakeCVAnalysisRepo) setStatus(id uuid.UUID, status models.CVAnalysisStatus) (*models.CVAnalysis, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	j.Status = status
	f.statuses = append(f.statuses, status)
	return j, nil
}

func (f *fakeCVAnalysisRepo) UpdateStatus(id uuid.UUID, status models.CVAnalysisStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.setStatus(id, status)
	return err
}

func (f *fakeCVAnalysisRepo) UpdateResult(id uuid.UUID, result *repositories.CVAnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resultErr != nil {
		return f.resultErr
	}
	j, err := f.setStatus(id, models.StatusCompleted)
	if err != nil {
		return err
	}
	score := result.OverallScore
	j.OverallScore = &score
	j.Strengths = result.Strengths
	j.Weaknesses = result.Weaknesses
	j.Suggestions = result.Suggestions
	return nil
}

func (f *fakeCVAnalysisRepo) UpdateError(id uuid.UUID, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, err := f.setStatus(id, models.StatusFailed)
	if err != nil {
		return err
	}
	j.ErrorMessage = &msg
	return nil
}

func (f *fakeCVAnalysisRepo) FindPendingJobs(limit int) ([]models.CVAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CVAnalysis
	for _, j := range f.jobs {
		if j.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *j)
		}
	}
	return out, nil
}

type scriptedProvider struct {
	mu       sync.Mutex
	text     string
	err      error
	requests []ai.Request
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-1" }

func (p *scriptedProvider) Complete(_ context.Context, req ai.Request) (*ai.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &ai.Completion{Text: p.text, Model: "scripted-1", InputTokens: 10, OutputTokens: 5}, nil
}

type fakeEmbedder struct{ calls int }

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeGuideStore struct {
	results  []SearchResult
	upserted map[string][]string
	docTypes map[string]string
	deleted  []string
}

func (f *fakeGuideStore) InitCollection(context.Context) error { return nil }

func (f *fakeGuideStore) UpsertChunks(_ context.Context, source, docType string, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return errors.New("chunks and embeddings differ in length")
	}
	if f.upserted == nil {
		f.upserted = map[string][]string{}
		f.docTypes = map[string]string{}
	}
	f.upserted[source] = chunks
	f.docTypes[source] = docType
	return nil
}

func (f *fakeGuideStore) SearchSimilar(context.Context, []float32, string, int) ([]SearchResult, error) {
	return f.results, nil
}

func (f *fakeGuideStore) DeleteSource(_ context.Context, source string) error {
	f.deleted = append(f.deleted, source)
	return nil
}
