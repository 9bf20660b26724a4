package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/services"
	"github.com/SAP-F-2025/spirit-profile-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	catalogHandler *CatalogHandler
	profileHandler *ProfileHandler
	sessionHandler *SessionHandler
}

func NewHandlerManager(
	spiritService services.SpiritService,
	quizService services.QuizService,
	traits *catalog.TraitCatalog,
	bank *catalog.QuestionBank,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		catalogHandler: NewCatalogHandler(traits, bank, logger),
		profileHandler: NewProfileHandler(spiritService, logger),
		sessionHandler: NewSessionHandler(quizService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Catalog routes
		v1.GET("/traits", hm.catalogHandler.ListTraits)
		v1.GET("/traits/:code", hm.catalogHandler.GetTrait)
		v1.GET("/questions", hm.catalogHandler.ListQuestions)
		v1.GET("/questions/:index", hm.catalogHandler.GetQuestion)
		v1.GET("/chapters/:number", hm.catalogHandler.GetChapter)

		// Profile routes
		profiles := v1.Group("/profiles")
		{
			profiles.POST("/calculate", hm.profileHandler.CalculateProfile)
			profiles.POST("", hm.profileHandler.SubmitProfile)
			profiles.GET("/:id", hm.profileHandler.GetProfile)
			profiles.GET("/code/:code", hm.profileHandler.DecodeProfileCode)
			profiles.GET("/stats/popular", hm.profileHandler.GetPopularTraits)

			// User-specific routes
			profiles.GET("/user/:user_id", hm.profileHandler.ListUserProfiles)
			profiles.GET("/user/:user_id/status", hm.profileHandler.GetSpiritStatus)
			profiles.GET("/user/:user_id/spirit", hm.profileHandler.GetGeneratedSpirit)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/spirits/pending", hm.profileHandler.ListPendingSpirits)
			admin.PUT("/spirits/:id", hm.profileHandler.UpdateSpiritDetails)
		}

		// Quiz session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.AbandonSession)
			sessions.POST("/:id/answer", hm.sessionHandler.AnswerQuestion)
			sessions.POST("/:id/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/:id/continue", hm.sessionHandler.ContinueFromRest)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "spirit-profile-service",
	})
}
