package services

import (
	"context"

	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
)

// SpiritService scores quizzes and manages the stored spirit profiles
type SpiritService interface {
	// Scoring
	Calculate(ctx context.Context, req *CalculateProfileRequest) (*models.SpiritProfile, error)
	Submit(ctx context.Context, req *SubmitProfileRequest) (*ProfileResponse, error)
	DecodeProfileCode(code string) (*DecodedProfileResponse, error)

	// Queries
	Get(ctx context.Context, id uint) (*ProfileResponse, error)
	ListByUser(ctx context.Context, userID string, req *ListProfilesRequest) (*ProfileListResponse, error)
	GetSpiritStatus(ctx context.Context, userID string) (*models.SpiritStatus, error)
	GetGeneratedSpirit(ctx context.Context, userID string) (*models.SpiritProfileRecord, error)
	GetPopularTraits(ctx context.Context) (*PopularTraitsResponse, error)

	// Administration
	ListPending(ctx context.Context, req *ListProfilesRequest) (*ProfileListResponse, error)
	UpdateSpiritDetails(ctx context.Context, id uint, req *UpdateSpiritRequest) (*models.SpiritProfileRecord, error)
}

// QuizService drives interactive quiz sessions and submits them on completion
type QuizService interface {
	Start(ctx context.Context, req *StartSessionRequest) (*SessionResponse, error)
	Get(ctx context.Context, sessionID string) (*SessionResponse, error)
	Answer(ctx context.Context, sessionID string, req *AnswerQuestionRequest) (*SessionResponse, error)
	Previous(ctx context.Context, sessionID string) (*SessionResponse, error)
	ContinueFromRest(ctx context.Context, sessionID string) (*SessionResponse, error)
	Abandon(ctx context.Context, sessionID string) error
}
