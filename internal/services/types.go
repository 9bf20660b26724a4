package services

import (
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/quiz"
)

// ===== PROFILE REQUESTS =====

type CalculateProfileRequest struct {
	Answers []models.Answer `json:"answers" validate:"dive"`
}

type SubmitProfileRequest struct {
	UserID          string          `json:"user_id" validate:"required,max=255"`
	Answers         []models.Answer `json:"answers" validate:"required,min=1,dive"`
	DurationMinutes *int            `json:"test_duration_minutes" validate:"omitempty,min=0"`

	// SessionID makes the submission idempotent: a second submit for the
	// same session returns the stored result
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

type UpdateSpiritRequest struct {
	models.SpiritDetails
	GeneratedBy string `json:"generated_by" validate:"required,max=255"`
}

type ListProfilesRequest struct {
	Limit     int    `form:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int    `form:"offset" json:"offset" validate:"omitempty,min=0"`
	SortBy    string `form:"sort_by" json:"sort_by" validate:"omitempty,oneof=created_at primary_score generated_at"`
	SortOrder string `form:"sort_order" json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// ===== PROFILE RESPONSES =====

type ProfileResponse struct {
	Record  *models.SpiritProfileRecord `json:"record"`
	Profile *models.SpiritProfile       `json:"profile"`
}

type ProfileListResponse struct {
	Profiles []*models.SpiritProfileRecord `json:"profiles"`
	Total    int64                         `json:"total"`
	Limit    int                           `json:"limit"`
	Offset   int                           `json:"offset"`
}

type TraitPopularity struct {
	Code       string  `json:"code"`
	Title      string  `json:"title"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type PopularTraitsResponse struct {
	Traits      []TraitPopularity `json:"traits"`
	Total       int64             `json:"total"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type DecodedTrait struct {
	models.Trait
	Score *int `json:"score,omitempty"`
}

type DecodedProfileResponse struct {
	Code  string         `json:"code"`
	Highs []DecodedTrait `json:"highs"`
	Lows  []DecodedTrait `json:"lows"`
}

// ===== QUIZ SESSION REQUESTS / RESPONSES =====

// Session payloads use the camelCase of the Question, Chapter and Answer
// models they carry.

type StartSessionRequest struct {
	UserID string `json:"userId" validate:"required,max=255"`
}

type AnswerQuestionRequest struct {
	SelectedOption *int `json:"selectedOption" validate:"required,min=0"`
}

type SessionResponse struct {
	SessionID      string           `json:"sessionId"`
	UserID         string           `json:"userId"`
	State          quiz.State       `json:"state"`
	CurrentIndex   int              `json:"currentIndex"`
	TotalQuestions int              `json:"totalQuestions"`
	Progress       int              `json:"progress"`
	Chapter        int              `json:"chapter"`
	Question       *models.Question `json:"question,omitempty"`
	SelectedOption *int             `json:"selectedOption,omitempty"`
	RestStation    *models.Chapter  `json:"restStation,omitempty"`
	StartedAt      time.Time        `json:"startedAt"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	Result         *ProfileResponse `json:"result,omitempty"`
}
