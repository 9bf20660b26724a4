package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/cache"
	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/events"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/repositories"
	"github.com/SAP-F-2025/spirit-profile-service/internal/scoring"
	"github.com/SAP-F-2025/spirit-profile-service/internal/validator"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockSpiritProfileRepository is a mock implementation of SpiritProfileRepository
type MockSpiritProfileRepository struct {
	mock.Mock
}

func (m *MockSpiritProfileRepository) Create(ctx context.Context, record *models.SpiritProfileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSpiritProfileRepository) GetByID(ctx context.Context, id uint) (*models.SpiritProfileRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*models.SpiritProfileRecord)
	return record, args.Error(1)
}

func (m *MockSpiritProfileRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.SpiritProfileRecord, error) {
	args := m.Called(ctx, sessionID)
	record, _ := args.Get(0).(*models.SpiritProfileRecord)
	return record, args.Error(1)
}

func (m *MockSpiritProfileRepository) ListByUser(ctx context.Context, userID string, filters repositories.SpiritProfileFilters) ([]*models.SpiritProfileRecord, int64, error) {
	args := m.Called(ctx, userID, filters)
	return args.Get(0).([]*models.SpiritProfileRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockSpiritProfileRepository) GetLatestByUser(ctx context.Context, userID string) (*models.SpiritProfileRecord, error) {
	args := m.Called(ctx, userID)
	record, _ := args.Get(0).(*models.SpiritProfileRecord)
	return record, args.Error(1)
}

func (m *MockSpiritProfileRepository) GetLatestGeneratedByUser(ctx context.Context, userID string) (*models.SpiritProfileRecord, error) {
	args := m.Called(ctx, userID)
	record, _ := args.Get(0).(*models.SpiritProfileRecord)
	return record, args.Error(1)
}

func (m *MockSpiritProfileRepository) ListPending(ctx context.Context, filters repositories.SpiritProfileFilters) ([]*models.SpiritProfileRecord, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.SpiritProfileRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockSpiritProfileRepository) UpdateSpiritDetails(ctx context.Context, id uint, details models.SpiritDetails, generatedBy string, generatedAt time.Time) error {
	args := m.Called(ctx, id, details, generatedBy, generatedAt)
	return args.Error(0)
}

func (m *MockSpiritProfileRepository) CountPrimaryTraits(ctx context.Context) ([]repositories.TraitCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repositories.TraitCount), args.Error(1)
}

// failingPublisher rejects every event
type failingPublisher struct{}

func (failingPublisher) PublishProfileEvent(context.Context, *events.ProfileEvent) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error { return nil }

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type testDeps struct {
	repo      *MockSpiritProfileRepository
	publisher *events.MockEventPublisher
	cache     cache.CacheService
	redis     *miniredis.Miniredis
	spirits   *spiritService
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cacheService := cache.NewRedisCache(client, zap.NewNop())

	repo := new(MockSpiritProfileRepository)
	publisher := events.NewMockEventPublisher(logger)
	engine := scoring.NewDefaultEngine(scoring.WithClock(func() time.Time { return testNow }))

	svc := NewSpiritService(repo, engine, cacheService, NewProfileEventService(publisher, logger),
		validator.New(), logger, 5*time.Minute).(*spiritService)
	svc.now = func() time.Time { return testNow }

	return &testDeps{repo: repo, publisher: publisher, cache: cacheService, redis: mr, spirits: svc}
}

// allFirstOptions answers every question of the default bank with option 0,
// four seconds per question.
func allFirstOptions() []models.Answer {
	bank := catalog.DefaultQuestionBank()
	answers := make([]models.Answer, 0, bank.Len())
	for _, q := range bank.Questions() {
		answers = append(answers, models.Answer{QuestionID: q.ID, SelectedOption: 0, ResponseTimeMs: 4000})
	}
	return answers
}
