package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/spirit-profile-service/internal/errors"
	"github.com/SAP-F-2025/spirit-profile-service/internal/cache"
	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/quiz"
	"github.com/SAP-F-2025/spirit-profile-service/internal/scoring"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Profile specific errors
	ErrProfileNotFound    = errors.New("spirit profile not found")
	ErrSpiritNotGenerated = errors.New("spirit details not generated yet")

	// Quiz session specific errors
	ErrSessionNotFound = errors.New("quiz session not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrSpiritNotGenerated) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, cache.ErrSessionNotFound) ||
		errors.Is(err, catalog.ErrTraitNotFound) ||
		errors.Is(err, catalog.ErrQuestionOutOfRange) ||
		errors.Is(err, catalog.ErrChapterNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, scoring.ErrInvalidAnswer) ||
		errors.Is(err, scoring.ErrMalformedProfileID) {
		return true
	}
	var ve apperrors.ValidationErrors
	var single *apperrors.ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, quiz.ErrSessionCompleted) ||
		errors.Is(err, quiz.ErrAtRestStation) ||
		errors.Is(err, quiz.ErrNotAtRestStation)
}
