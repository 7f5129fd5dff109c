package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/services"
)

type memDocs struct {
	mu   sync.Mutex
	docs map[uuid.UUID]models.Document
	fail error
}

func (m *memDocs) Create(d *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.docs[d.ID] = *d
	return nil
}

func (m *memDocs) FindByID(userID, id uuid.UUID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return &d, nil
}

func (m *memDocs) ListByUser(userID uuid.UUID) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Document
	for _, d := range m.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocs) Delete(userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memVersions struct {
	mu       sync.Mutex
	versions map[uuid.UUID]models.Version
}

func (m *memVersions) Create(v *models.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[v.ID] = *v
	return nil
}

func (m *memVersions) FindByID(userID, id uuid.UUID) (*models.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.versions[id]
	if !ok || v.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (m *memVersions) ListByDocument(userID, documentID uuid.UUID) ([]models.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Version
	for _, v := range m.versions {
		if v.UserID == userID && v.DocumentID == documentID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVersions) Update(v *models.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.versions[v.ID]
	if !ok || old.UserID != v.UserID {
		return repositories.ErrNotFound
	}
	m.versions[v.ID] = *v
	return nil
}

func (m *memVersions) Delete(userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.versions[id]
	if !ok || v.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(m.versions, id)
	return nil
}

type memTargets struct {
	mu      sync.Mutex
	targets map[uuid.UUID]models.JobTarget
}

func (m *memTargets) Create(t *models.JobTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[t.ID] = *t
	return nil
}

func (m *memTargets) FindByID(userID, id uuid.UUID) (*models.JobTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.targets[id]
	if !ok || t.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (m *memTargets) ListByUser(userID uuid.UUID) ([]models.JobTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.JobTarget
	for _, t := range m.targets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTargets) Update(t *models.JobTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.targets[t.ID]
	if !ok || old.UserID != t.UserID {
		return repositories.ErrNotFound
	}
	m.targets[t.ID] = *t
	return nil
}

func (m *memTargets) Delete(userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.targets[id]
	if !ok || t.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(m.targets, id)
	return nil
}

type memAnalyses struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]models.Analysis
}

func (m *memAnalyses) Create(a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = *a
	return nil
}

func (m *memAnalyses) FindByID(userID, id uuid.UUID) (*models.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok || a.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (m *memAnalyses) List(userID uuid.UUID, documentID *uuid.UUID) ([]models.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Analysis{}
	for _, a := range m.analyses {
		if a.UserID != userID {
			continue
		}
		if documentID != nil && a.DocumentID != *documentID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type memCVAnalyses struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]models.CVAnalysis
}

func (m *memCVAnalyses) Create(a *models.CVAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[a.ID] = *a
	return nil
}

func (m *memCVAnalyses) FindByID(id uuid.UUID) (*models.CVAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (m *memCVAnalyses) FindForUser(userID, id uuid.UUID) (*models.CVAnalysis, error) {
	a, err := m.FindByID(id)
	if err != nil || a.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (m *memCVAnalyses) UpdateStatus(id uuid.UUID, status models.CVAnalysisStatus) error {
	return nil
}

func (m *memCVAnalyses) UpdateResult(id uuid.UUID, result *repositories.CVAnalysisResult) error {
	return nil
}

func (m *memCVAnalyses) UpdateError(id uuid.UUID, errorMsg string) error {
	return nil
}

func (m *memCVAnalyses) FindPendingJobs(limit int) ([]models.CVAnalysis, error) {
	return nil, nil
}

type fakeAuth struct {
	users map[string]models.User
}

func (f *fakeAuth) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	if _, ok := f.users[req.Email]; ok {
		return nil, services.ErrEmailTaken
	}
	u := models.User{ID: uuid.New(), Email: req.Email, Name: req.Name, Plan: models.PlanFree}
	f.users[req.Email] = u
	return &models.AuthResponse{Token: "token-" + u.ID.String(), User: u}, nil
}

func (f *fakeAuth) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	u, ok := f.users[req.Email]
	if !ok || req.Password != "correct-horse" {
		return nil, services.ErrInvalidCredentials
	}
	return &models.AuthResponse{Token: "token-" + u.ID.String(), User: u}, nil
}

func (f *fakeAuth) ParseToken(string) (*services.Claims, error) {
	return nil, services.ErrInvalidToken
}

func (f *fakeAuth) CurrentUser(userID uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeAnalyzer struct {
	structured *models.Resume
	match      *services.MatchAnalysis
	err        error
	lastCV     string
}

func (f *fakeAnalyzer) StructureCV(_ context.Context, _ uuid.UUID, cvText string) (*models.Resume, error) {
	f.lastCV = cvText
	if f.err != nil {
		return nil, f.err
	}
	return f.structured, nil
}

func (f *fakeAnalyzer) AnalyzeMatch(_ context.Context, _ uuid.UUID, cvText string, _ *models.JobTarget) (*services.MatchAnalysis, error) {
	f.lastCV = cvText
	if f.err != nil {
		return nil, f.err
	}
	return f.match, nil
}

func (f *fakeAnalyzer) ReviewCV(context.Context, uuid.UUID) error { return nil }

type fakeUsage struct {
	quotaErr error
	summary  *models.UsageResponse
}

func (f *fakeUsage) CheckQuota(uuid.UUID) error { return f.quotaErr }

func (f *fakeUsage) Reserve(userID uuid.UUID, kind models.UsageKind, provider string) (*models.UsageRecord, error) {
	if f.quotaErr != nil {
		return nil, f.quotaErr
	}
	return &models.UsageRecord{ID: uuid.New(), UserID: userID, Kind: kind, Provider: provider}, nil
}

func (f *fakeUsage) Commit(*models.UsageRecord, *ai.Completion) error { return nil }

func (f *fakeUsage) Release(*models.UsageRecord) error { return nil }

func (f *fakeUsage) Summary(uuid.UUID) (*models.UsageResponse, error) { return f.summary, nil }

type fakeWorker struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (f *fakeWorker) Start(context.Context) {}
func (f *fakeWorker) Stop()                 {}

func (f *fakeWorker) EnqueueJob(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, id)
}

type countingObserver struct {
	calls []string
}

func (o *countingObserver) ObserveExport(format, renderer string, success bool) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	o.calls = append(o.calls, format+"/"+renderer+"/"+outcome)
}
