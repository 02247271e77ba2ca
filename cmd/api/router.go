package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"plik-backend/internal/shared/middleware"
	"plik-backend/pkg/container"
)

const validateAccessPath = "/api/v1/stripe/validate-access"

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
			"/api/v1/stripe/webhooks",
			"/api/v1/upload-image",
		})),
		middleware.CORS(c.Config.Site.AllowedOrigins, validateAccessPath),
		middleware.Language(),
	)

	// Feeds live at the site root
	router.GET("/blog/rss.xml", c.BlogHandler.RSS)
	router.GET("/sitemap.xml", c.BlogHandler.Sitemap)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBlogRoutes(v1, c)
		setupFormRoutes(v1, c)
		setupAuthRoutes(v1, c)
		setupStripeRoutes(v1, c)
		setupSubscriberRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// BLOG ROUTES (public)
// ========================================
func setupBlogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	blog := v1.Group("/blog")
	{
		blog.GET("/posts", c.BlogHandler.ListPosts)
		blog.GET("/posts/featured", c.BlogHandler.GetFeaturedPosts)
		blog.GET("/posts/recent", c.BlogHandler.GetRecentPosts)
		blog.GET("/posts/slug/:slug", c.BlogHandler.GetPostBySlug)
		blog.GET("/posts/:id", c.BlogHandler.GetPost)
		blog.GET("/posts/:id/related", c.BlogHandler.GetRelatedPosts)
		blog.GET("/categories", c.BlogHandler.GetCategories)
		blog.GET("/categories/:category/posts", c.BlogHandler.GetPostsByCategory)
		blog.GET("/tags", c.BlogHandler.GetTags)
	}
}

// ========================================
// FORM ROUTES (rate limited)
// ========================================
func setupFormRoutes(v1 *gin.RouterGroup, c *container.Container) {
	forms := v1.Group("", c.FormLimiter.Middleware())
	{
		forms.POST("/send-contact", c.ContactHandler.SendContact)
		forms.POST("/send-demo-request", c.ContactHandler.SendDemoRequest)
		forms.POST("/newsletter/subscribe", c.ContactHandler.SubscribeNewsletter)
	}
}

// ========================================
// AUTH ROUTES (rate limited)
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/auth/login", c.FormLimiter.Middleware(), c.BillingHandler.Login)
	v1.POST("/admin/login", c.FormLimiter.Middleware(), c.AdminHandler.Login)
}

// ========================================
// STRIPE ROUTES
// ========================================
func setupStripeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	stripe := v1.Group("/stripe")
	{
		stripe.POST("/create-checkout-session", c.BillingHandler.CreateCheckoutSession)
		stripe.POST("/simple-checkout", c.BillingHandler.CreateSimpleCheckout)
		stripe.GET("/create-customer-portal", c.BillingHandler.PortalRedirect)
		stripe.POST("/create-customer-portal", c.BillingHandler.CreatePortalSession)
		stripe.POST("/webhooks", c.BillingHandler.Webhook)
	}

	// app.plik.ca calls this cross-origin from any host
	validate := stripe.Group("/validate-access", middleware.OpenCORS())
	{
		validate.POST("", c.BillingHandler.ValidateAccess)
		validate.OPTIONS("", c.BillingHandler.Preflight)
	}

	v1.GET("/user/subscription", c.BillingHandler.GetSubscription)
	v1.GET("/plans", c.BillingHandler.ListPlans)
}

// ========================================
// SUBSCRIBER ROUTES
// ========================================
func setupSubscriberRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sub := v1.Group("", middleware.AuthMiddleware(c.JWTManager), middleware.SubscriberMiddleware())
	{
		sub.GET("/me", c.BillingHandler.Me)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin", middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		posts := admin.Group("/blog/posts")
		posts.GET("", c.BlogHandler.AdminListPosts)
		posts.GET("/export", c.BlogHandler.ExportPosts)
		posts.POST("", c.BlogHandler.CreatePost)
		posts.PUT("/:id", c.BlogHandler.UpdatePost)
		posts.PATCH("/:id", c.BlogHandler.UpdatePost)
		posts.POST("/:id/toggle-featured", c.BlogHandler.ToggleFeatured)
		posts.PUT("/:id/featured", c.BlogHandler.SetFeatured)
		posts.DELETE("/:id", c.BlogHandler.DeletePost)

		admin.GET("/debug/customer", c.BillingHandler.DebugCustomer)
		admin.GET("/debug/prices", c.BillingHandler.DebugPrices)
		admin.GET("/debug/stripe-account", c.BillingHandler.DebugAccount)
		admin.GET("/test-prices", c.BillingHandler.TestPrices)
	}

	// The blog editor posts images here
	v1.POST("/upload-image",
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
		c.UploadHandler.UploadImage,
	)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Database is required; Redis and MinIO only degrade
		dbStatus := checkStatus(appCtx.DB.Ping(ctx))
		redisStatus := checkStatus(appCtx.Redis.HealthCheck(ctx))
		storageStatus := checkStatus(appCtx.Storage.Ping(ctx))

		if dbStatus != "ok" || redisStatus != "ok" || storageStatus != "ok" {
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  storageStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

func checkStatus(err error) string {
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return "ok"
}
