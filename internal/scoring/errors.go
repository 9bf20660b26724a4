package scoring

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
)

var (
	ErrInvalidAnswer      = errors.New("invalid answer")
	ErrUnknownTraitCode   = catalog.ErrUnknownTraitCode
	ErrTooFewTraits       = errors.New("trait catalog too small to rank")
	ErrMalformedProfileID = errors.New("malformed profile id")
)

// AnswerError describes the first malformed answer in a scoring request.
type AnswerError struct {
	Position   int    `json:"position"`
	QuestionID string `json:"question_id"`
	Option     int    `json:"option"`
	Reason     string `json:"reason"`
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("invalid answer at position %d (question %q, option %d): %s",
		e.Position, e.QuestionID, e.Option, e.Reason)
}

func (e *AnswerError) Unwrap() error {
	return ErrInvalidAnswer
}
