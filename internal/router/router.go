package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataanalyst/internal/handler"
	"dataanalyst/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
	log *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/", healthH.Root)
	r.GET("/healthz", healthH.Liveness)

	// Both spellings are routed so clients never see a redirect on POST.
	r.POST("/api", analysisH.Analyze)
	r.POST("/api/", analysisH.Analyze)

	return r
}
