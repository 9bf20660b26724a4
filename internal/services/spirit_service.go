package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/cache"
	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/repositories"
	"github.com/SAP-F-2025/spirit-profile-service/internal/scoring"
	"github.com/SAP-F-2025/spirit-profile-service/internal/validator"
)

// PopularTraitsCacheKey holds the cached PopularTraitsResponse. Every key
// under statsCachePattern is dropped when a new profile is stored.
const (
	PopularTraitsCacheKey = "stats:popular_traits"
	statsCachePattern     = "stats:*"
)

type spiritService struct {
	repo       repositories.SpiritProfileRepository
	engine     *scoring.Engine
	cache      cache.CacheService
	events     ProfileEventService
	validator  *validator.Validator
	logger     *slog.Logger
	serviceLog *ServiceLogger
	statsTTL   time.Duration
	now        func() time.Time
}

func NewSpiritService(
	repo repositories.SpiritProfileRepository,
	engine *scoring.Engine,
	cacheService cache.CacheService,
	events ProfileEventService,
	validator *validator.Validator,
	logger *slog.Logger,
	statsTTL time.Duration,
) SpiritService {
	return &spiritService{
		repo:       repo,
		engine:     engine,
		cache:      cacheService,
		events:     events,
		validator:  validator,
		logger:     logger,
		serviceLog: NewServiceLogger(logger, LogConfig{Service: "spirit-profile-service", Component: "spirit"}),
		statsTTL:   statsTTL,
		now:        time.Now,
	}
}

// ===== SCORING =====

func (s *spiritService) Calculate(ctx context.Context, req *CalculateProfileRequest) (*models.SpiritProfile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.engine.Calculate(req.Answers)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Profile calculated", "profile_code", profile.ID, "answers", len(req.Answers))
	return profile, nil
}

func (s *spiritService) Submit(ctx context.Context, req *SubmitProfileRequest) (resp *ProfileResponse, err error) {
	op := s.serviceLog.WithOperation(ctx, "submit_profile", req.UserID)
	defer func() {
		resourceID := ""
		if resp != nil {
			resourceID = strconv.FormatUint(uint64(resp.Record.ID), 10)
		}
		op.LogResult(resourceID, "spirit_profile", err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		var existing *models.SpiritProfileRecord
		if existing, err = s.repo.GetBySessionID(ctx, req.SessionID); err != nil {
			return nil, fmt.Errorf("failed to look up session result: %w", err)
		}
		if existing != nil {
			s.logger.Info("Session already submitted, returning stored result",
				"session_id", req.SessionID, "record_id", existing.ID)
			return &ProfileResponse{Record: existing, Profile: s.rebuildProfile(existing)}, nil
		}
	}

	profile, err := s.engine.Calculate(req.Answers)
	if err != nil {
		return nil, err
	}

	record, err := models.NewSpiritProfileRecord(req.UserID, profile, req.Answers, req.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile record: %w", err)
	}
	if req.SessionID != "" {
		sessionID := req.SessionID
		record.SessionID = &sessionID
	}

	if err = s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create spirit profile: %w", err)
	}

	op.LogAudit(AuditEventCreate, strconv.FormatUint(uint64(record.ID), 10), "spirit_profile", nil, map[string]interface{}{
		"profile_code":  record.ProfileCode,
		"primary_trait": record.PrimaryTrait,
	})

	// Delivery and cache failures must not lose a stored result
	if pubErr := s.events.NotifyProfileGenerated(ctx, record); pubErr != nil {
		s.logger.Error("Failed to publish profile generated event", "record_id", record.ID, "error", pubErr)
	}
	s.invalidateStats(ctx)

	s.logger.Info("Spirit profile created", "record_id", record.ID, "user_id", record.UserID, "profile_code", record.ProfileCode)

	return &ProfileResponse{Record: record, Profile: profile}, nil
}

func (s *spiritService) DecodeProfileCode(code string) (*DecodedProfileResponse, error) {
	traits := s.engine.Traits()
	decoded, err := scoring.ParseProfileID(code, traits)
	if err != nil {
		return nil, err
	}

	resp := &DecodedProfileResponse{
		Code:  code,
		Highs: make([]DecodedTrait, 0, len(decoded.Highs)),
		Lows:  make([]DecodedTrait, 0, len(decoded.Lows)),
	}
	for i, c := range decoded.Highs {
		trait, err := traits.GetTrait(c)
		if err != nil {
			return nil, err
		}
		score := decoded.HighScores[i]
		resp.Highs = append(resp.Highs, DecodedTrait{Trait: trait, Score: &score})
	}
	for _, c := range decoded.Lows {
		trait, err := traits.GetTrait(c)
		if err != nil {
			return nil, err
		}
		resp.Lows = append(resp.Lows, DecodedTrait{Trait: trait})
	}

	return resp, nil
}

// ===== QUERIES =====

func (s *spiritService) Get(ctx context.Context, id uint) (*ProfileResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get spirit profile: %w", err)
	}

	return &ProfileResponse{Record: record, Profile: s.rebuildProfile(record)}, nil
}

func (s *spiritService) ListByUser(ctx context.Context, userID string, req *ListProfilesRequest) (*ProfileListResponse, error) {
	if userID == "" {
		return nil, NewValidationError("user_id", "user_id is required", userID)
	}
	filters, err := s.filters(req)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list spirit profiles: %w", err)
	}

	return &ProfileListResponse{Profiles: records, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *spiritService) GetSpiritStatus(ctx context.Context, userID string) (*models.SpiritStatus, error) {
	record, err := s.repo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest spirit profile: %w", err)
	}
	if record == nil {
		return nil, ErrProfileNotFound
	}

	return &models.SpiritStatus{
		ID:              record.ID,
		SpiritGenerated: record.SpiritGenerated,
		CreatedAt:       record.CreatedAt,
		GeneratedAt:     record.GeneratedAt,
	}, nil
}

func (s *spiritService) GetGeneratedSpirit(ctx context.Context, userID string) (*models.SpiritProfileRecord, error) {
	record, err := s.repo.GetLatestGeneratedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get generated spirit: %w", err)
	}
	if record == nil {
		return nil, ErrSpiritNotGenerated
	}
	return record, nil
}

func (s *spiritService) GetPopularTraits(ctx context.Context) (*PopularTraitsResponse, error) {
	var cached PopularTraitsResponse
	err := s.cache.Get(ctx, PopularTraitsCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Failed to read popular traits from cache", "error", err)
	}

	counts, err := s.repo.CountPrimaryTraits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count primary traits: %w", err)
	}

	resp := buildPopularTraits(s.engine.Traits(), counts, s.now())
	if err := s.cache.Set(ctx, PopularTraitsCacheKey, resp, s.statsTTL); err != nil {
		s.logger.Warn("Failed to cache popular traits", "error", err)
	}

	return resp, nil
}

// ===== ADMINISTRATION =====

func (s *spiritService) ListPending(ctx context.Context, req *ListProfilesRequest) (*ProfileListResponse, error) {
	filters, err := s.filters(req)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.ListPending(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending spirits: %w", err)
	}

	return &ProfileListResponse{Profiles: records, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *spiritService) UpdateSpiritDetails(ctx context.Context, id uint, req *UpdateSpiritRequest) (record *models.SpiritProfileRecord, err error) {
	op := s.serviceLog.WithOperation(ctx, "update_spirit_details", req.GeneratedBy)
	resourceID := strconv.FormatUint(uint64(id), 10)
	defer func() { op.LogResult(resourceID, "spirit_profile", err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err = s.repo.UpdateSpiritDetails(ctx, id, req.SpiritDetails, req.GeneratedBy, s.now()); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update spirit details: %w", err)
	}

	record, err = s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to reload spirit profile: %w", err)
	}

	op.LogAudit(AuditEventUpdate, resourceID, "spirit_profile", nil, map[string]interface{}{
		"spirit_title": req.Title,
		"user_id":      record.UserID,
	})

	if pubErr := s.events.NotifySpiritDetailsFilled(ctx, record); pubErr != nil {
		s.logger.Error("Failed to publish spirit details event", "record_id", record.ID, "error", pubErr)
	}

	return record, nil
}

// ===== HELPERS =====

func (s *spiritService) filters(req *ListProfilesRequest) (repositories.SpiritProfileFilters, error) {
	if req == nil {
		req = &ListProfilesRequest{}
	}
	if err := s.validator.Validate(req); err != nil {
		return repositories.SpiritProfileFilters{}, err
	}

	filters := repositories.SpiritProfileFilters{
		Limit:     req.Limit,
		Offset:    req.Offset,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if filters.Limit == 0 {
		filters.Limit = 20
	}
	return filters, nil
}

// rebuildProfile re-scores the stored answer log so callers get the full
// ranking, including raw scores that the row does not keep.
func (s *spiritService) rebuildProfile(record *models.SpiritProfileRecord) *models.SpiritProfile {
	answers, err := record.Answers()
	if err != nil {
		s.logger.Warn("Stored answers are unreadable", "record_id", record.ID, "error", err)
		return nil
	}

	profile, err := s.engine.Calculate(answers)
	if err != nil {
		s.logger.Warn("Stored answers no longer score", "record_id", record.ID, "error", err)
		return nil
	}
	if profile.ID != record.ProfileCode {
		s.logger.Warn("Re-scored profile differs from stored code", "record_id", record.ID,
			"stored", record.ProfileCode, "rescored", profile.ID)
	}
	profile.GeneratedAt = record.CreatedAt
	return profile
}

func (s *spiritService) invalidateStats(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, statsCachePattern); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "pattern", statsCachePattern, "error", err)
	}
}

// buildPopularTraits lists every catalog trait, most chosen primary first.
// Equal counts keep catalog order.
func buildPopularTraits(traits *catalog.TraitCatalog, counts []repositories.TraitCount, now time.Time) *PopularTraitsResponse {
	byCode := make(map[string]int64, len(counts))
	var total int64
	for _, c := range counts {
		if !traits.Contains(c.Trait) {
			continue
		}
		byCode[c.Trait] += c.Count
		total += c.Count
	}

	popularity := make([]TraitPopularity, 0, traits.Len())
	for _, trait := range traits.Traits() {
		count := byCode[trait.Code]
		percentage := 0.0
		if total > 0 {
			percentage = math.Round(float64(count)/float64(total)*1000) / 10
		}
		popularity = append(popularity, TraitPopularity{
			Code:       trait.Code,
			Title:      trait.Title,
			Count:      count,
			Percentage: percentage,
		})
	}
	sort.SliceStable(popularity, func(i, j int) bool {
		return popularity[i].Count > popularity[j].Count
	})

	return &PopularTraitsResponse{Traits: popularity, Total: total, GeneratedAt: now}
}
