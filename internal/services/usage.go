package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
)

var ErrQuotaExceeded = errors.New("monthly AI quota exceeded")

// UsageService meters AI operations. Free users get a fixed number of
// operations per calendar month (UTC); pro users are unlimited.
//
// An operation reserves its usage row before calling the provider and then
// either commits the token counts or releases the row when the call fails.
type UsageService interface {
	CheckQuota(userID uuid.UUID) error
	Reserve(userID uuid.UUID, kind models.UsageKind, provider string) (*models.UsageRecord, error)
	Commit(record *models.UsageRecord, completion *ai.Completion) error
	Release(record *models.UsageRecord) error
	Summary(userID uuid.UUID) (*models.UsageResponse, error)
}

type usageService struct {
	usageRepo    repositories.UsageRepository
	userRepo     repositories.UserRepository
	monthlyLimit int
	now          func() time.Time
}

func NewUsageService(usageRepo repositories.UsageRepository, userRepo repositories.UserRepository, monthlyLimit int) UsageService {
	return &usageService{
		usageRepo:    usageRepo,
		userRepo:     userRepo,
		monthlyLimit: monthlyLimit,
		now:          time.Now,
	}
}

// MonthStart is the first instant of t's month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *usageService) CheckQuota(userID uuid.UUID) error {
	summary, err := s.Summary(userID)
	if err != nil {
		return err
	}
	if summary.Limit >= 0 && summary.Used >= int64(summary.Limit) {
		return ErrQuotaExceeded
	}
	return nil
}

// Reserve inserts the usage row first and counts afterwards, so concurrent
// reservations can be refused together but never overshoot the limit.
func (s *usageService) Reserve(userID uuid.UUID, kind models.UsageKind, provider string) (*models.UsageRecord, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	record := &models.UsageRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Provider:  provider,
		CreatedAt: s.now().UTC(),
	}
	if err := s.usageRepo.Create(record); err != nil {
		return nil, err
	}
	if user.Plan == models.PlanPro {
		return record, nil
	}

	counts, err := s.usageRepo.CountSince(userID, MonthStart(s.now()))
	if err != nil {
		_ = s.usageRepo.Delete(record.ID)
		return nil, err
	}
	var used int64
	for _, n := range counts {
		used += n
	}
	if used > int64(s.monthlyLimit) {
		if err := s.usageRepo.Delete(record.ID); err != nil {
			return nil, err
		}
		return nil, ErrQuotaExceeded
	}
	return record, nil
}

func (s *usageService) Commit(record *models.UsageRecord, completion *ai.Completion) error {
	if completion == nil {
		return nil
	}
	record.Model = completion.Model
	record.InputTokens = completion.InputTokens
	record.OutputTokens = completion.OutputTokens
	return s.usageRepo.UpdateTokens(record)
}

// Release drops a reservation whose AI call failed; failed calls are free.
func (s *usageService) Release(record *models.UsageRecord) error {
	return s.usageRepo.Delete(record.ID)
}

// Summary reports this month's usage. Limit is -1 for unlimited plans.
func (s *usageService) Summary(userID uuid.UUID) (*models.UsageResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	start := MonthStart(s.now())
	counts, err := s.usageRepo.CountSince(userID, start)
	if err != nil {
		return nil, err
	}

	resp := &models.UsageResponse{
		Plan:        user.Plan,
		PeriodStart: start,
		Limit:       -1,
		ByKind:      make(map[string]int64, len(counts)),
	}
	if user.Plan != models.PlanPro {
		resp.Limit = s.monthlyLimit
	}
	for kind, n := range counts {
		resp.ByKind[string(kind)] = n
		resp.Used += n
	}

	return resp, nil
}
