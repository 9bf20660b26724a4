package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/spirit-profile-service/internal/services"
	"github.com/SAP-F-2025/spirit-profile-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	BaseHandler
	spiritService services.SpiritService
}

func NewProfileHandler(spiritService services.SpiritService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:   NewBaseHandler(logger),
		spiritService: spiritService,
	}
}

// CalculateProfile scores answers without storing anything
// @Summary Calculate profile
// @Description Scores a set of answers and returns the ranked profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param answers body services.CalculateProfileRequest true "Answers"
// @Success 200 {object} SuccessResponse{data=models.SpiritProfile}
// @Failure 400 {object} ErrorResponse
// @Router /profiles/calculate [post]
func (h *ProfileHandler) CalculateProfile(c *gin.Context) {
	var req services.CalculateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.spiritService.Calculate(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Profile calculated successfully", profile)
}

// SubmitProfile scores and stores a completed quiz
// @Summary Submit profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param submission body services.SubmitProfileRequest true "Completed quiz"
// @Success 201 {object} SuccessResponse{data=services.ProfileResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) SubmitProfile(c *gin.Context) {
	var req services.SubmitProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting spirit profile", "user_id", req.UserID, "answers", len(req.Answers))

	resp, err := h.spiritService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Spirit profile created successfully", resp)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.spiritService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Spirit profile retrieved successfully", resp)
}

// DecodeProfileCode expands a profile code into its traits
func (h *ProfileHandler) DecodeProfileCode(c *gin.Context) {
	code := ParseStringIDParam(c, "code")
	if code == "" {
		return
	}

	resp, err := h.spiritService.DecodeProfileCode(code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Profile code decoded successfully", resp)
}

func (h *ProfileHandler) ListUserProfiles(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	resp, err := h.spiritService.ListByUser(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Spirit profiles retrieved successfully", resp)
}

func (h *ProfileHandler) GetSpiritStatus(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	status, err := h.spiritService.GetSpiritStatus(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Spirit status retrieved successfully", status)
}

func (h *ProfileHandler) GetGeneratedSpirit(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	record, err := h.spiritService.GetGeneratedSpirit(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Spirit retrieved successfully", record)
}

// GetPopularTraits reports how often each trait leads a profile
// @Summary Popular traits
// @Tags profiles
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.PopularTraitsResponse}
// @Router /profiles/stats/popular [get]
func (h *ProfileHandler) GetPopularTraits(c *gin.Context) {
	resp, err := h.spiritService.GetPopularTraits(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Popular traits retrieved successfully", resp)
}

// ===== ADMINISTRATION =====

func (h *ProfileHandler) ListPendingSpirits(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	resp, err := h.spiritService.ListPending(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Pending spirits retrieved successfully", resp)
}

// UpdateSpiritDetails attaches administrator-written spirit details to a
// profile. Details may be edited again later.
// @Summary Update spirit details
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Profile ID"
// @Param details body services.UpdateSpiritRequest true "Spirit details"
// @Success 200 {object} SuccessResponse{data=models.SpiritProfileRecord}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/spirits/{id} [put]
func (h *ProfileHandler) UpdateSpiritDetails(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateSpiritRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating spirit details", "profile_id", id, "generated_by", req.GeneratedBy)

	record, err := h.spiritService.UpdateSpiritDetails(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Spirit details updated successfully", record)
}
