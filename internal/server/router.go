package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openlms/authoring-backend/internal/handlers"
	"github.com/openlms/authoring-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins     []string
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	StructureHandler *handlers.StructureHandler
	DripHandler      *handlers.DripHandler
	SettingsHandler  *handlers.SettingsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api/v1")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/staff", cfg.AuthMiddleware.RequireRole("admin"), cfg.AuthHandler.Register)

	// Course settings and drip conditions
	course := api.Group("/courses/:course_id")
	course.GET("/settings", cfg.SettingsHandler.Get)
	course.PUT("/settings", cfg.SettingsHandler.Save)
	course.GET("/chapters/:chapter_id/conditions", cfg.DripHandler.GetChapterConditions)
	course.POST("/chapters/:chapter_id/evaluate", cfg.DripHandler.EvaluateChapter)
	course.PUT("/conditions", cfg.DripHandler.UpsertCondition)
	course.DELETE("/conditions/:condition_id", cfg.DripHandler.RemoveCondition)
	api.GET("/conditions/defaults/:rule_type", cfg.DripHandler.RuleDefaults)

	// Structure tree, scoped to one offering
	offering := course.Group("/sessions/:session_id/levels/:level_id")
	offering.GET("/structure", cfg.StructureHandler.GetSnapshot)
	offering.POST("/structure/reload", cfg.StructureHandler.Reload)
	offering.POST("/structure/toggle", cfg.StructureHandler.Toggle)
	offering.POST("/structure/expand-all", cfg.StructureHandler.ExpandAll)
	offering.POST("/structure/collapse-all", cfg.StructureHandler.CollapseAll)
	offering.POST("/structure/navigate", cfg.StructureHandler.Navigate)
	offering.POST("/structure/breadcrumb", cfg.StructureHandler.GoToBreadcrumb)
	offering.POST("/structure/navigation/reset", cfg.StructureHandler.ResetNavigation)
	offering.GET("/structure/chapters/:chapter_id/drip-dialog", cfg.StructureHandler.OpenDripDialog)

	offering.POST("/subjects", cfg.StructureHandler.CreateSubject)
	offering.PUT("/subjects/:subject_id", cfg.StructureHandler.UpdateSubject)
	offering.DELETE("/subjects/:subject_id", cfg.StructureHandler.DeleteSubject)
	offering.POST("/modules", cfg.StructureHandler.CreateModule)
	offering.PUT("/modules/:module_id", cfg.StructureHandler.UpdateModule)
	offering.DELETE("/modules/:module_id", cfg.StructureHandler.DeleteModule)
	offering.POST("/chapters", cfg.StructureHandler.CreateChapter)
	offering.PUT("/chapters/:chapter_id", cfg.StructureHandler.UpdateChapter)
	offering.DELETE("/chapters/:chapter_id", cfg.StructureHandler.DeleteChapter)

	return router
}
