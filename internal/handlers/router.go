package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/feedback-form-service/internal/services"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
)

// Rate limits for the unauthenticated surface
const (
	publicRPS   = 5
	publicBurst = 10
)

// HealthChecker reports whether the backing stores are reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HandlerManager struct {
	base            BaseHandler
	authHandler     *AuthHandler
	formHandler     *FormHandler
	responseHandler *ResponseHandler
	userHandler     *UserHandler
	authMiddleware  *AuthMiddleware
	health          HealthChecker
}

// NewHandlerManager wires the handlers; tokenHeader and tokenPrefix
// configure where the auth middleware reads bearer tokens from.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	verifier utils.TokenVerifier,
	tokenHeader, tokenPrefix string,
) *HandlerManager {
	return &HandlerManager{
		base:            NewBaseHandler(logger),
		authHandler:     NewAuthHandler(serviceManager.Auth(), logger),
		formHandler:     NewFormHandler(serviceManager.Form(), serviceManager.Submission(), logger),
		responseHandler: NewResponseHandler(serviceManager.Response(), serviceManager.Export(), logger),
		userHandler:     NewUserHandler(serviceManager.User(), logger),
		authMiddleware:  NewAuthMiddleware(verifier, logger, tokenHeader, tokenPrefix),
		health:          serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public authentication routes, rate limited per client IP
	auth := api.Group("/auth")
	auth.Use(RateLimitMiddleware(publicRPS, publicBurst))
	{
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/signin", hm.authHandler.Signin)
		auth.POST("/forgot-password", hm.authHandler.ForgotPassword)
	}

	// Public respondent surface: fetch a form by its capability URL and
	// submit a response. Anonymous, rate limited.
	public := api.Group("/forms/public")
	public.Use(RateLimitMiddleware(publicRPS, publicBurst))
	{
		public.GET("/:publicUrl", hm.formHandler.GetPublicForm)
		public.POST("/:publicUrl/submit", hm.formHandler.SubmitResponse)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(hm.authMiddleware.RequireAuth())
	{
		users := authed.Group("/users")
		{
			users.GET("/profile", hm.userHandler.GetProfile)
			users.PUT("/profile", hm.userHandler.UpdateProfile)
		}

		forms := authed.Group("/forms")
		{
			forms.POST("", hm.formHandler.CreateForm)
			forms.GET("", hm.formHandler.ListForms)
			forms.GET("/:id", hm.formHandler.GetForm)
			forms.DELETE("/:id", hm.formHandler.DeleteForm)

			// Owner-scoped response retrieval and exports
			forms.GET("/:id/responses", hm.responseHandler.ListFormResponses)
			forms.GET("/:id/responses/download", hm.responseHandler.DownloadFormResponses)
			forms.GET("/:id/responses/download-xlsx", hm.responseHandler.DownloadFormResponsesXLSX)
		}

		responses := authed.Group("/responses")
		{
			// Respondent routes are matched by the token's email
			responses.GET("/my", hm.responseHandler.ListMyResponses)
			responses.GET("/my/:id", hm.responseHandler.GetMyResponse)
			responses.GET("/my/:id/download", hm.responseHandler.DownloadMyResponse)

			responses.GET("/:id", hm.responseHandler.GetResponse)
			responses.GET("/:id/download", hm.responseHandler.DownloadResponse)
		}
	}

	// Health check endpoint; reports 503 when storage is unreachable
	router.GET("/health", hm.HealthCheck)
}

// HealthCheck handles GET /health
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if hm.health != nil {
		if err := hm.health.HealthCheck(c.Request.Context()); err != nil {
			hm.base.handleServiceError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "feedback-form-service",
	})
}
