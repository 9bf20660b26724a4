package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/cache"
	"github.com/SAP-F-2025/spirit-profile-service/internal/events"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSpiritService_Calculate(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	profile, err := d.spirits.Calculate(ctx, &CalculateProfileRequest{Answers: allFirstOptions()})
	require.NoError(t, err)
	assert.Equal(t, "P000003005_0407_1004519", profile.ID)
	assert.Equal(t, testNow, profile.GeneratedAt)

	profile, err = d.spirits.Calculate(ctx, &CalculateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, 50, profile.ThreeHighs.Primary.Normalized)

	_, err = d.spirits.Calculate(ctx, &CalculateProfileRequest{Answers: []models.Answer{{QuestionID: "Q1", SelectedOption: 9}}})
	assert.True(t, IsValidation(err))

	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.GetPublishedEvents())
}

func TestSpiritService_Submit(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	require.NoError(t, d.redis.Set(PopularTraitsCacheKey, `{"traits":[],"total":0}`))
	require.NoError(t, d.redis.Set("stats:popular_traits:v0", `{}`))
	require.NoError(t, d.redis.Set(cache.SessionKey("s-9"), `{}`))

	duration := 6
	d.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.SpiritProfileRecord")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.SpiritProfileRecord).ID = 42
		}).Return(nil).Once()

	resp, err := d.spirits.Submit(ctx, &SubmitProfileRequest{
		UserID:          "user-1",
		Answers:         allFirstOptions(),
		DurationMinutes: &duration,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(42), resp.Record.ID)
	assert.Equal(t, "user-1", resp.Record.UserID)
	assert.Equal(t, "P000003005_0407_1004519", resp.Record.ProfileCode)
	assert.Equal(t, "ATH", resp.Record.PrimaryTrait)
	assert.Equal(t, 100, resp.Record.PrimaryScore)
	assert.Equal(t, &duration, resp.Record.TestDurationMinutes)
	assert.Equal(t, resp.Profile.ID, resp.Record.ProfileCode)

	answers, err := resp.Record.Answers()
	require.NoError(t, err)
	assert.Len(t, answers, len(allFirstOptions()))

	published := d.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventProfileGenerated, published[0].Type)
	data, ok := published[0].Data.(events.ProfileGeneratedEvent)
	require.True(t, ok)
	assert.Equal(t, uint(42), data.RecordID)
	assert.Equal(t, "ATH", data.PrimaryTrait)

	assert.False(t, d.redis.Exists(PopularTraitsCacheKey), "stats cache should be invalidated")
	assert.False(t, d.redis.Exists("stats:popular_traits:v0"))
	assert.True(t, d.redis.Exists(cache.SessionKey("s-9")), "sessions are not stats")
	d.repo.AssertExpectations(t)
}

func TestSpiritService_SubmitRejectsBadInput(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	negative := -1

	tests := []struct {
		name string
		req  *SubmitProfileRequest
	}{
		{"missing user", &SubmitProfileRequest{Answers: allFirstOptions()}},
		{"no answers", &SubmitProfileRequest{UserID: "user-1"}},
		{"negative duration", &SubmitProfileRequest{UserID: "user-1", Answers: allFirstOptions(), DurationMinutes: &negative}},
		{"unknown question", &SubmitProfileRequest{UserID: "user-1", Answers: []models.Answer{{QuestionID: "Q999"}}}},
		{"option out of range", &SubmitProfileRequest{UserID: "user-1", Answers: []models.Answer{{QuestionID: "Q1", SelectedOption: 4}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.spirits.Submit(ctx, tt.req)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}

	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.GetPublishedEvents())
}

func TestSpiritService_SubmitRepositoryFailure(t *testing.T) {
	d := newTestDeps(t)
	dbErr := errors.New("connection reset")
	d.repo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	_, err := d.spirits.Submit(context.Background(), &SubmitProfileRequest{UserID: "user-1", Answers: allFirstOptions()})
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, d.publisher.GetPublishedEvents())
}

func TestSpiritService_SubmitSurvivesPublishFailure(t *testing.T) {
	d := newTestDeps(t)
	d.spirits.events = NewProfileEventService(failingPublisher{}, slog.New(slog.DiscardHandler))
	d.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := d.spirits.Submit(context.Background(), &SubmitProfileRequest{UserID: "user-1", Answers: allFirstOptions()})
	require.NoError(t, err)
	assert.Equal(t, "P000003005_0407_1004519", resp.Record.ProfileCode)
}

func TestSpiritService_SubmitReturnsStoredResultForSession(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	profile, err := d.spirits.engine.Calculate(allFirstOptions())
	require.NoError(t, err)
	existing, err := models.NewSpiritProfileRecord("user-1", profile, allFirstOptions(), nil)
	require.NoError(t, err)
	existing.ID = 12
	sessionID := "s-1"
	existing.SessionID = &sessionID

	d.repo.On("GetBySessionID", mock.Anything, "s-1").Return(existing, nil).Once()

	resp, err := d.spirits.Submit(ctx, &SubmitProfileRequest{
		UserID:    "user-1",
		Answers:   allFirstOptions(),
		SessionID: "s-1",
	})
	require.NoError(t, err)
	assert.Same(t, existing, resp.Record)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, existing.ProfileCode, resp.Profile.ID)

	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.GetPublishedEvents())
	d.repo.AssertExpectations(t)
}

func TestSpiritService_SubmitSessionLookupFailure(t *testing.T) {
	d := newTestDeps(t)
	dbErr := errors.New("connection reset")
	d.repo.On("GetBySessionID", mock.Anything, "s-1").Return(nil, dbErr).Once()

	_, err := d.spirits.Submit(context.Background(), &SubmitProfileRequest{
		UserID:    "user-1",
		Answers:   allFirstOptions(),
		SessionID: "s-1",
	})
	assert.ErrorIs(t, err, dbErr)
	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSpiritService_Get(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	profile, err := d.spirits.engine.Calculate(allFirstOptions())
	require.NoError(t, err)
	record, err := models.NewSpiritProfileRecord("user-1", profile, allFirstOptions(), nil)
	require.NoError(t, err)
	record.ID = 7
	record.CreatedAt = testNow.Add(-24 * time.Hour)

	d.repo.On("GetByID", mock.Anything, uint(7)).Return(record, nil)
	d.repo.On("GetByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := d.spirits.Get(ctx, 7)
	require.NoError(t, err)
	assert.Same(t, record, resp.Record)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, record.ProfileCode, resp.Profile.ID)
	assert.Equal(t, record.CreatedAt, resp.Profile.GeneratedAt)

	_, err = d.spirits.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.True(t, IsNotFound(err))
}

func TestSpiritService_ListByUser(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	records := []*models.SpiritProfileRecord{{ID: 2, UserID: "user-1"}, {ID: 1, UserID: "user-1"}}

	d.repo.On("ListByUser", mock.Anything, "user-1", repositories.SpiritProfileFilters{Limit: 20}).
		Return(records, int64(2), nil).Once()

	resp, err := d.spirits.ListByUser(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, records, resp.Profiles)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 20, resp.Limit)

	_, err = d.spirits.ListByUser(ctx, "user-1", &ListProfilesRequest{SortBy: "user_id"})
	assert.True(t, IsValidation(err))

	_, err = d.spirits.ListByUser(ctx, "", nil)
	assert.True(t, IsValidation(err))

	d.repo.AssertExpectations(t)
}

func TestSpiritService_SpiritStatusAndGenerated(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	generatedAt := testNow
	title := "The Lantern Keeper"
	latest := &models.SpiritProfileRecord{ID: 3, UserID: "user-1", SpiritGenerated: true, SpiritTitle: &title, GeneratedAt: &generatedAt, CreatedAt: testNow.Add(-24 * time.Hour)}

	d.repo.On("GetLatestByUser", mock.Anything, "user-1").Return(latest, nil)
	d.repo.On("GetLatestByUser", mock.Anything, "user-2").Return(nil, nil)
	d.repo.On("GetLatestGeneratedByUser", mock.Anything, "user-1").Return(latest, nil)
	d.repo.On("GetLatestGeneratedByUser", mock.Anything, "user-2").Return(nil, nil)

	status, err := d.spirits.GetSpiritStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &models.SpiritStatus{ID: 3, SpiritGenerated: true, CreatedAt: latest.CreatedAt, GeneratedAt: &generatedAt}, status)

	_, err = d.spirits.GetSpiritStatus(ctx, "user-2")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	spirit, err := d.spirits.GetGeneratedSpirit(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &title, spirit.SpiritTitle)

	_, err = d.spirits.GetGeneratedSpirit(ctx, "user-2")
	assert.ErrorIs(t, err, ErrSpiritNotGenerated)
	assert.True(t, IsNotFound(err))
}

func TestSpiritService_GetPopularTraits(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	d.repo.On("CountPrimaryTraits", mock.Anything).Return([]repositories.TraitCount{
		{Trait: "ZEU", Count: 1},
		{Trait: "ATH", Count: 3},
		{Trait: "XXX", Count: 9},
	}, nil).Once()

	resp, err := d.spirits.GetPopularTraits(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Total)
	require.Len(t, resp.Traits, 12)
	assert.Equal(t, "ATH", resp.Traits[0].Code)
	assert.Equal(t, 75.0, resp.Traits[0].Percentage)
	assert.Equal(t, "ZEU", resp.Traits[1].Code)
	assert.Equal(t, 25.0, resp.Traits[1].Percentage)
	assert.Equal(t, "APH", resp.Traits[2].Code)
	assert.Equal(t, int64(0), resp.Traits[2].Count)
	assert.NotEmpty(t, resp.Traits[0].Title)

	assert.True(t, d.redis.Exists(PopularTraitsCacheKey))
	assert.Equal(t, 5*time.Minute, d.redis.TTL(PopularTraitsCacheKey))

	cached, err := d.spirits.GetPopularTraits(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.Traits, cached.Traits)
	d.repo.AssertExpectations(t)
}

func TestSpiritService_GetPopularTraitsWithoutCache(t *testing.T) {
	d := newTestDeps(t)
	d.redis.Close()

	d.repo.On("CountPrimaryTraits", mock.Anything).Return([]repositories.TraitCount{}, nil)

	resp, err := d.spirits.GetPopularTraits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)
	for _, tp := range resp.Traits {
		assert.Zero(t, tp.Percentage)
	}
}

func validSpiritRequest() *UpdateSpiritRequest {
	return &UpdateSpiritRequest{
		SpiritDetails: models.SpiritDetails{
			Title:      "The Lantern Keeper",
			Appearance: models.SpiritAppearance{Hair: "silver", Eyes: "amber", Aura: "warm", Features: []string{"owl feather"}},
			Essence:    "Guides lost travellers home.",
			Amnesia:    models.SpiritAmnesia{Forgotten: "its first name", Impact: "answers to every name"},
			Growth:     models.SpiritGrowth{Challenge: "stillness", Path: "listening", Blessing: "clear sight"},
			Poem:       "A lamp in the fog.",
		},
		GeneratedBy: "admin-1",
	}
}

func TestSpiritService_UpdateSpiritDetails(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	req := validSpiritRequest()

	title := req.Title
	updated := &models.SpiritProfileRecord{ID: 5, UserID: "user-1", ProfileCode: "P000003005_0407_1004519",
		SpiritGenerated: true, SpiritTitle: &title, GeneratedBy: &req.GeneratedBy, GeneratedAt: &testNow}

	d.repo.On("UpdateSpiritDetails", mock.Anything, uint(5), req.SpiritDetails, "admin-1", testNow).Return(nil).Once()
	d.repo.On("GetByID", mock.Anything, uint(5)).Return(updated, nil).Once()

	record, err := d.spirits.UpdateSpiritDetails(ctx, 5, req)
	require.NoError(t, err)
	assert.Same(t, updated, record)

	published := d.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSpiritDetailsFilled, published[0].Type)
	data, ok := published[0].Data.(events.SpiritDetailsFilledEvent)
	require.True(t, ok)
	assert.Equal(t, "The Lantern Keeper", data.SpiritTitle)
	assert.Equal(t, "admin-1", data.GeneratedBy)
	d.repo.AssertExpectations(t)
}

func TestSpiritService_UpdateSpiritDetailsErrors(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()

	missing := validSpiritRequest()
	missing.Title = ""
	_, err := d.spirits.UpdateSpiritDetails(ctx, 5, missing)
	assert.True(t, IsValidation(err))

	noGrowth := validSpiritRequest()
	noGrowth.Growth.Blessing = ""
	_, err = d.spirits.UpdateSpiritDetails(ctx, 5, noGrowth)
	assert.True(t, IsValidation(err))

	d.repo.On("UpdateSpiritDetails", mock.Anything, uint(9), mock.Anything, "admin-1", testNow).Return(gorm.ErrRecordNotFound)
	_, err = d.spirits.UpdateSpiritDetails(ctx, 9, validSpiritRequest())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	assert.Empty(t, d.publisher.GetPublishedEvents())
}

func TestSpiritService_ListPending(t *testing.T) {
	d := newTestDeps(t)
	records := []*models.SpiritProfileRecord{{ID: 9}}
	filters := repositories.SpiritProfileFilters{Limit: 5, Offset: 10, SortBy: "created_at", SortOrder: "asc"}
	d.repo.On("ListPending", mock.Anything, filters).Return(records, int64(11), nil)

	resp, err := d.spirits.ListPending(context.Background(), &ListProfilesRequest{Limit: 5, Offset: 10, SortBy: "created_at", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, records, resp.Profiles)
	assert.Equal(t, int64(11), resp.Total)
	assert.Equal(t, 10, resp.Offset)
}

func TestSpiritService_DecodeProfileCode(t *testing.T) {
	d := newTestDeps(t)

	decoded, err := d.spirits.DecodeProfileCode("P000003005_0407_1004519")
	require.NoError(t, err)
	require.Len(t, decoded.Highs, 3)
	require.Len(t, decoded.Lows, 2)
	assert.Equal(t, "ATH", decoded.Highs[0].Code)
	require.NotNil(t, decoded.Highs[0].Score)
	assert.Equal(t, 100, *decoded.Highs[0].Score)
	assert.Equal(t, 19, *decoded.Highs[2].Score)
	assert.Equal(t, "PRO", decoded.Lows[0].Code)
	assert.Nil(t, decoded.Lows[0].Score)
	assert.Equal(t, "LOK", decoded.Lows[1].Code)

	_, err = d.spirits.DecodeProfileCode("P000003005_0407")
	assert.True(t, IsValidation(err))
}
