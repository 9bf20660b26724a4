package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only trait catalog and question bank
type CatalogHandler struct {
	BaseHandler
	traits *catalog.TraitCatalog
	bank   *catalog.QuestionBank
}

type QuestionListResponse struct {
	Version    int               `json:"version"`
	Total      int               `json:"total"`
	Questions  []models.Question `json:"questions"`
	Chapters   []models.Chapter  `json:"chapters"`
	RestPoints []int             `json:"rest_points"`
}

type ChapterResponse struct {
	models.Chapter
	Questions []models.Question `json:"questions"`
}

func NewCatalogHandler(traits *catalog.TraitCatalog, bank *catalog.QuestionBank, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		traits:      traits,
		bank:        bank,
	}
}

// ListTraits returns every trait in catalog order
// @Summary List traits
// @Tags catalog
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.Trait}
// @Router /traits [get]
func (h *CatalogHandler) ListTraits(c *gin.Context) {
	h.RespondWithSuccess(c, http.StatusOK, "Traits retrieved successfully", h.traits.Traits())
}

// GetTrait returns a single trait by its three letter code
// @Summary Get trait
// @Tags catalog
// @Produce json
// @Param code path string true "Trait code"
// @Success 200 {object} SuccessResponse{data=models.Trait}
// @Failure 404 {object} ErrorResponse
// @Router /traits/{code} [get]
func (h *CatalogHandler) GetTrait(c *gin.Context) {
	code := ParseStringIDParam(c, "code")
	if code == "" {
		return
	}

	trait, err := h.traits.GetTrait(strings.ToUpper(code))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Trait retrieved successfully", trait)
}

func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	h.RespondWithSuccess(c, http.StatusOK, "Questions retrieved successfully", QuestionListResponse{
		Version:    h.bank.Version(),
		Total:      h.bank.Len(),
		Questions:  h.bank.Questions(),
		Chapters:   h.bank.Chapters(),
		RestPoints: h.bank.RestStationIndices(),
	})
}

// GetQuestion returns the question at a zero-based position in the bank
func (h *CatalogHandler) GetQuestion(c *gin.Context) {
	index, ok := h.parseIntParam(c, "index")
	if !ok {
		return
	}

	question, err := h.bank.GetQuestion(index)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question retrieved successfully", question)
}

func (h *CatalogHandler) GetChapter(c *gin.Context) {
	number, ok := h.parseIntParam(c, "number")
	if !ok {
		return
	}

	chapter, err := h.bank.GetChapterMeta(number)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	questions := make([]models.Question, 0)
	for _, q := range h.bank.Questions() {
		if q.Chapter == number {
			questions = append(questions, q)
		}
	}

	h.RespondWithSuccess(c, http.StatusOK, "Chapter retrieved successfully", ChapterResponse{
		Chapter:   chapter,
		Questions: questions,
	})
}
