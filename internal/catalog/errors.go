package catalog

import "errors"

var (
	ErrTraitNotFound      = errors.New("trait not found")
	ErrUnknownTraitCode   = errors.New("unknown trait code")
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrInvalidCatalog     = errors.New("invalid trait catalog")
	ErrInvalidBank        = errors.New("invalid question bank")
)
