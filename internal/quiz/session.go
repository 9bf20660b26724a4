// Package quiz walks a user through the question bank one question at a
// time, pausing at rest stations between chapters.
package quiz

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/scoring"
	"github.com/google/uuid"
)

type State string

const (
	StateInProgress    State = "in_progress"
	StateAtRestStation State = "at_rest_station"
	StateCompleted     State = "completed"
)

var (
	ErrSessionCompleted   = errors.New("quiz session already completed")
	ErrAtRestStation      = errors.New("quiz session is paused at a rest station")
	ErrNotAtRestStation   = errors.New("quiz session is not at a rest station")
	ErrSessionNotAttached = errors.New("quiz session has no question bank")
)

// Session is one quiz run. It is serialized as-is into the session store;
// call Attach after decoding to bind it to a question bank again.
type Session struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	State           State           `json:"state"`
	Current         int             `json:"current"`
	Answers         []models.Answer `json:"answers"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	QuestionShownAt time.Time       `json:"question_shown_at"`
	ResultID        *uint           `json:"result_id,omitempty"`

	bank *catalog.QuestionBank
}

func NewSession(userID string, bank *catalog.QuestionBank, now time.Time) *Session {
	return &Session{
		ID:              uuid.NewString(),
		UserID:          userID,
		State:           StateInProgress,
		Answers:         []models.Answer{},
		StartedAt:       now,
		QuestionShownAt: now,
		bank:            bank,
	}
}

// Attach binds a decoded session to bank.
func (s *Session) Attach(bank *catalog.QuestionBank) error {
	if s.Current < 0 || s.Current >= bank.Len() {
		return fmt.Errorf("%w: session %s points at question %d", catalog.ErrQuestionOutOfRange, s.ID, s.Current)
	}
	s.bank = bank
	return nil
}

// Answer records option for the current question and moves on. The response
// time is measured from when the question was shown.
func (s *Session) Answer(option int, now time.Time) error {
	if err := s.checkAnswerable(); err != nil {
		return err
	}

	q, err := s.bank.GetQuestion(s.Current)
	if err != nil {
		return err
	}
	if option < 0 || option >= len(q.Options) {
		return &scoring.AnswerError{
			Position:   len(s.Answers),
			QuestionID: q.ID,
			Option:     option,
			Reason:     fmt.Sprintf("option out of range, question has %d options", len(q.Options)),
		}
	}

	elapsed := now.Sub(s.QuestionShownAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	_, answered := s.answerFor(q.ID)
	s.Answers = append(s.Answers, models.Answer{
		QuestionID:     q.ID,
		SelectedOption: option,
		ResponseTimeMs: elapsed,
		Changed:        answered,
	})

	if s.Current == s.bank.Len()-1 {
		s.State = StateCompleted
		completed := now
		s.CompletedAt = &completed
		return nil
	}

	s.Current++
	s.QuestionShownAt = now
	if s.bank.IsRestStation(s.Current) {
		s.State = StateAtRestStation
	}
	return nil
}

// ContinueFromRest leaves the rest station and shows the chapter's first question.
func (s *Session) ContinueFromRest(now time.Time) error {
	switch s.State {
	case StateCompleted:
		return ErrSessionCompleted
	case StateInProgress:
		return ErrNotAtRestStation
	}
	s.State = StateInProgress
	s.QuestionShownAt = now
	return nil
}

// Previous steps back one question. At the first question it only resets the
// question timer.
func (s *Session) Previous(now time.Time) error {
	if s.State == StateCompleted {
		return ErrSessionCompleted
	}
	if s.Current > 0 {
		s.Current--
	}
	s.State = StateInProgress
	s.QuestionShownAt = now
	return nil
}

func (s *Session) CurrentQuestion() (models.Question, error) {
	if s.bank == nil {
		return models.Question{}, ErrSessionNotAttached
	}
	return s.bank.GetQuestion(s.Current)
}

func (s *Session) CurrentChapter() int {
	q, err := s.CurrentQuestion()
	if err != nil {
		return catalog.MinChapter
	}
	return q.Chapter
}

// Progress is the share of the bank reached so far, counting the current
// question, as a whole percentage.
func (s *Session) Progress() int {
	if s.bank == nil || s.bank.Len() == 0 {
		return 0
	}
	if s.State == StateCompleted {
		return 100
	}
	return int(math.Round(float64(s.Current+1) / float64(s.bank.Len()) * 100))
}

// SelectedOption returns the latest option chosen for the current question.
func (s *Session) SelectedOption() (int, bool) {
	q, err := s.CurrentQuestion()
	if err != nil {
		return 0, false
	}
	a, ok := s.answerFor(q.ID)
	return a.SelectedOption, ok
}

// RestStation returns the metadata of the chapter about to begin. It is only
// meaningful while the session is at a rest station.
func (s *Session) RestStation() (models.Chapter, bool) {
	if s.State != StateAtRestStation || s.bank == nil {
		return models.Chapter{}, false
	}
	ch, err := s.bank.GetChapterMeta(s.CurrentChapter())
	if err != nil {
		return models.Chapter{}, false
	}
	return ch, true
}

// DurationMinutes is the whole minutes from start to completion, or nil for
// an unfinished session.
func (s *Session) DurationMinutes() *int {
	if s.CompletedAt == nil {
		return nil
	}
	minutes := int(math.Round(s.CompletedAt.Sub(s.StartedAt).Minutes()))
	return &minutes
}

func (s *Session) Completed() bool {
	return s.State == StateCompleted
}

func (s *Session) checkAnswerable() error {
	switch s.State {
	case StateCompleted:
		return ErrSessionCompleted
	case StateAtRestStation:
		return ErrAtRestStation
	}
	if s.bank == nil {
		return ErrSessionNotAttached
	}
	return nil
}

func (s *Session) answerFor(questionID string) (models.Answer, bool) {
	for i := len(s.Answers) - 1; i >= 0; i-- {
		if s.Answers[i].QuestionID == questionID {
			return s.Answers[i], true
		}
	}
	return models.Answer{}, false
}
