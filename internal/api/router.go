package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inkwell/blog-api/docs"
	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// Deps carries everything the router needs. Registerer and Gatherer default
// to the prometheus globals when nil.
type Deps struct {
	Log         zerolog.Logger
	Auth        ports.AuthService
	Authors     ports.AuthorService
	Blogs       ports.BlogService
	Tokens      ports.TokenService
	Credentials ports.CredentialVerifier
	Checks      map[string]handler.Check

	PublicBaseURL string
	FrontendURL   string
	CORSOrigins   []string

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "blog_http",
		Registerer: d.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.FrontendURL)
	authorHandler := handler.NewAuthorHandler(d.Authors, d.PublicBaseURL)
	blogHandler := handler.NewBlogHandler(d.Blogs, d.PublicBaseURL)
	healthHandler := handler.NewHealthHandler(d.Checks)

	bearer := middleware.BearerToken(d.Tokens)
	password := middleware.PasswordHeader(d.Credentials)

	// --- Author routes ---
	// /authors/me* must be registered ahead of /authors/:id.
	authors := e.Group("/authors")
	authors.POST("", authHandler.Register)
	authors.POST("/register", authHandler.Register)
	authors.POST("/login", authHandler.Login)
	authors.GET("/googleLogin", authHandler.GoogleLogin)
	authors.GET("/googleRedirect", authHandler.GoogleRedirect)
	authors.GET("", authorHandler.List, bearer, middleware.RequireRole(domain.RoleAdmin))

	me := authors.Group("/me", password)
	me.GET("", authorHandler.Me)
	me.PUT("", authorHandler.UpdateMe)
	me.DELETE("", authorHandler.DeleteMe)
	me.GET("/stories", authorHandler.MyStories)

	authors.GET("/:id", authorHandler.Get)
	authors.PUT("/:id", authorHandler.Update, bearer, middleware.RequireCapability(domain.CapManageAuthors))
	authors.DELETE("/:id", authorHandler.Delete, bearer, middleware.RequireCapability(domain.CapManageAuthors))

	// --- Blog routes ---
	blogs := e.Group("/blogs")
	blogs.GET("", blogHandler.List)
	blogs.POST("", blogHandler.Create, bearer, middleware.RequireCapability(domain.CapWriteOwnContent))
	blogs.GET("/:id", blogHandler.Get)
	blogs.PUT("/:id", blogHandler.Update, bearer)
	blogs.DELETE("/:id", blogHandler.Delete, bearer)

	blogs.GET("/:id/comments", blogHandler.ListComments)
	blogs.POST("/:id/comments", blogHandler.AddComment, bearer)
	blogs.GET("/:id/comments/:commentId", blogHandler.GetComment)
	blogs.PUT("/:id/comments/:commentId", blogHandler.UpdateComment, bearer)
	blogs.DELETE("/:id/comments/:commentId", blogHandler.DeleteComment, bearer)

	// --- Operational routes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
