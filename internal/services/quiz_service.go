package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/cache"
	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/quiz"
	"github.com/SAP-F-2025/spirit-profile-service/internal/validator"
)

const sessionLockStripes = 64

type quizService struct {
	sessions  *cache.SessionStore
	bank      *catalog.QuestionBank
	spirits   SpiritService
	validator *validator.Validator
	logger    *slog.Logger
	locks     [sessionLockStripes]sync.Mutex
	now       func() time.Time
}

func NewQuizService(sessions *cache.SessionStore, bank *catalog.QuestionBank, spirits SpiritService, validator *validator.Validator, logger *slog.Logger) QuizService {
	return &quizService{
		sessions:  sessions,
		bank:      bank,
		spirits:   spirits,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *quizService) Start(ctx context.Context, req *StartSessionRequest) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session := quiz.NewSession(req.UserID, s.bank, s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save quiz session: %w", err)
	}

	s.logger.Info("Quiz session started", "session_id", session.ID, "user_id", session.UserID)
	return s.buildResponse(session, nil), nil
}

func (s *quizService) Get(ctx context.Context, sessionID string) (*SessionResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var result *ProfileResponse
	if session.Completed() && session.ResultID != nil {
		result, err = s.spirits.Get(ctx, *session.ResultID)
		if err != nil {
			return nil, err
		}
	}
	return s.buildResponse(session, result), nil
}

func (s *quizService) Answer(ctx context.Context, sessionID string, req *AnswerQuestionRequest) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var result *ProfileResponse
	session, err := s.update(ctx, sessionID, func(session *quiz.Session) error {
		if err := session.Answer(*req.SelectedOption, s.now()); err != nil {
			return err
		}
		if !session.Completed() {
			return nil
		}

		submitted, err := s.spirits.Submit(ctx, &SubmitProfileRequest{
			UserID:          session.UserID,
			Answers:         session.Answers,
			DurationMinutes: session.DurationMinutes(),
			SessionID:       session.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to submit completed session: %w", err)
		}
		id := submitted.Record.ID
		session.ResultID = &id
		result = submitted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		s.logger.Info("Quiz session completed", "session_id", session.ID, "record_id", result.Record.ID)
	}
	return s.buildResponse(session, result), nil
}

func (s *quizService) Previous(ctx context.Context, sessionID string) (*SessionResponse, error) {
	session, err := s.update(ctx, sessionID, func(session *quiz.Session) error {
		return session.Previous(s.now())
	})
	if err != nil {
		return nil, err
	}
	return s.buildResponse(session, nil), nil
}

func (s *quizService) ContinueFromRest(ctx context.Context, sessionID string) (*SessionResponse, error) {
	session, err := s.update(ctx, sessionID, func(session *quiz.Session) error {
		return session.ContinueFromRest(s.now())
	})
	if err != nil {
		return nil, err
	}
	return s.buildResponse(session, nil), nil
}

// Abandon drops the session from the store. A result already submitted for
// it stays stored.
func (s *quizService) Abandon(ctx context.Context, sessionID string) error {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Info("Quiz session abandoned", "session_id", sessionID, "state", session.State, "current_index", session.Current)
	return nil
}

// ===== HELPERS =====

// update applies fn to the stored session and saves it. Requests for the same
// session are serialized within this process.
func (s *quizService) update(ctx context.Context, sessionID string, fn func(*quiz.Session) error) (*quiz.Session, error) {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save quiz session: %w", err)
	}
	return session, nil
}

func (s *quizService) load(ctx context.Context, sessionID string) (*quiz.Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load quiz session: %w", err)
	}
	if err := session.Attach(s.bank); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *quizService) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionLockStripes]
}

func (s *quizService) buildResponse(session *quiz.Session, result *ProfileResponse) *SessionResponse {
	resp := &SessionResponse{
		SessionID:      session.ID,
		UserID:         session.UserID,
		State:          session.State,
		CurrentIndex:   session.Current,
		TotalQuestions: s.bank.Len(),
		Progress:       session.Progress(),
		Chapter:        session.CurrentChapter(),
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
		Result:         result,
	}

	if !session.Completed() {
		if q, err := session.CurrentQuestion(); err == nil {
			resp.Question = &q
		}
		if opt, ok := session.SelectedOption(); ok {
			resp.SelectedOption = &opt
		}
	}
	if ch, ok := session.RestStation(); ok {
		resp.RestStation = &ch
	}

	return resp
}
