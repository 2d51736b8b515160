package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/middleware"
	"github.com/noah-isme/lms-edge-api/internal/service"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	"github.com/noah-isme/lms-edge-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lms-edge-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lms-edge-api/pkg/middleware/requestid"
)

// Router bundles every handler and the middleware they hang off of.
type Router struct {
	Catalog       *CatalogHandler
	CourseAdmin   *CourseAdminHandler
	Modules       *ModuleHandler
	Subscriptions *SubscriptionHandler
	Cart          *CartHandler
	Checkout      *CheckoutHandler
	Progress      *ProgressHandler
	Learning      *LearningHandler
	Quiz          *QuizHandler
	Metrics       *MetricsHandler

	Auth       *service.AuthService
	MetricsSvc *service.MetricsService
	Logger     *zap.Logger
}

// Setup builds the gin engine with all routes registered under the API
// prefix. Health, readiness and the Prometheus scrape sit at the root.
func (rt *Router) Setup(cfg *config.Config) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(rt.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(rt.MetricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", rt.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	public := api.Group("")
	public.Use(middleware.OptionalJWT(rt.Auth))
	{
		public.GET("/courses", rt.Catalog.List)
		public.GET("/courses/:id", rt.Catalog.Get)
		public.GET("/courses/:id/pricing", rt.Catalog.Pricing)
		public.GET("/courses/:id/modules", rt.Modules.ListByCourse)
		public.GET("/subscriptions", rt.Subscriptions.List)
		public.GET("/subscriptions/:id", rt.Subscriptions.Get)
		public.GET("/subscriptions/:id/courses", rt.Subscriptions.Courses)
	}

	// Receipt links are pre-signed, no bearer token needed.
	api.GET("/receipts/:token", rt.Checkout.DownloadReceipt)

	auth := api.Group("")
	auth.Use(middleware.JWT(rt.Auth))
	{
		auth.POST("/courses/:id/rating", rt.Catalog.Rate)

		auth.GET("/cart", rt.Cart.View)
		auth.POST("/cart/items", rt.Cart.AddItem)
		auth.PUT("/cart/items/:itemId", rt.Cart.UpdateItem)
		auth.DELETE("/cart/items/:itemId", rt.Cart.RemoveItem)
		auth.DELETE("/cart", rt.Cart.Clear)

		auth.POST("/checkout", rt.Checkout.Start)
		auth.POST("/checkout/subscription", rt.Checkout.StartSubscription)
		auth.GET("/checkout/:id", rt.Checkout.Status)

		auth.GET("/learnings", rt.Learning.List)
		auth.POST("/learnings/:enrollmentId/share", rt.Learning.Share)

		auth.GET("/modules/:id/materials", rt.Modules.ListMaterials)
		auth.GET("/modules/:id/progress", rt.Progress.ModuleProgress)
		auth.PUT("/progress", rt.Progress.Toggle)

		quiz := auth.Group("/quiz-builder/sessions")
		{
			quiz.POST("", rt.Quiz.StartSession)
			quiz.GET("/:id", rt.Quiz.GetDraft)
			quiz.DELETE("/:id", rt.Quiz.Discard)
			quiz.PUT("/:id/question", rt.Quiz.SetQuestionText)
			quiz.PUT("/:id/mode", rt.Quiz.SetMode)
			quiz.POST("/:id/options", rt.Quiz.AddOption)
			quiz.DELETE("/:id/options/:index", rt.Quiz.RemoveOption)
			quiz.PUT("/:id/options/:index/correct", rt.Quiz.ToggleCorrect)
			quiz.POST("/:id/questions", rt.Quiz.CommitQuestion)
		}
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(rt.Auth), middleware.RequireRoles("admin"))
	{
		admin.GET("/status", rt.Metrics.Status)

		admin.POST("/courses", rt.CourseAdmin.Create)
		admin.GET("/courses/export", rt.CourseAdmin.ExportCSV)
		admin.PUT("/courses/:id", rt.CourseAdmin.Update)
		admin.PUT("/courses/:id/pricing", rt.CourseAdmin.UpdatePricing)
		admin.PUT("/courses/:id/thumbnail", rt.CourseAdmin.UpdateThumbnail)

		admin.POST("/modules", rt.Modules.Create)
		admin.PUT("/modules/:id", rt.Modules.Update)
		admin.DELETE("/modules/:id", rt.Modules.Delete)
		admin.POST("/modules/:id/materials", rt.Modules.CreateMaterial)
		admin.PUT("/materials/:id", rt.Modules.UpdateMaterial)
		admin.DELETE("/materials/:id", rt.Modules.DeleteMaterial)

		admin.POST("/subscriptions", rt.Subscriptions.Create)
		admin.PUT("/subscriptions/:id", rt.Subscriptions.Update)
		admin.DELETE("/subscriptions/:id", rt.Subscriptions.Delete)
		admin.POST("/subscriptions/:id/courses", rt.Subscriptions.AttachCourse)
		admin.DELETE("/subscriptions/:id/courses/:courseId", rt.Subscriptions.DetachCourse)
	}

	return r
}
