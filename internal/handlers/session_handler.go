package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/spirit-profile-service/internal/services"
	"github.com/SAP-F-2025/spirit-profile-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// SessionHandler exposes interactive quiz sessions
type SessionHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewSessionHandler(quizService services.QuizService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Starting quiz session", "user_id", req.UserID)

	resp, err := h.quizService.Start(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Quiz session started", resp)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	resp, err := h.quizService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quiz session retrieved", resp)
}

// AnswerQuestion records the answer to the current question. The response
// carries the stored result once the last question is answered.
func (h *SessionHandler) AnswerQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.AnswerQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.quizService.Answer(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Answer recorded"
	if resp.Result != nil {
		message = "Quiz completed"
	}
	h.RespondWithSuccess(c, http.StatusOK, message, resp)
}

func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	resp, err := h.quizService.Previous(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Moved to previous question", resp)
}

func (h *SessionHandler) AbandonSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Abandoning quiz session", "session_id", id)

	if err := h.quizService.Abandon(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) ContinueFromRest(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	resp, err := h.quizService.ContinueFromRest(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Continuing to next chapter", resp)
}
