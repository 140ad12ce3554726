package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avilov/authgate/internal/logging"
)

// NewRouter assembles the gin engine: CORS, security headers, the public
// auth endpoints, and the token-protected ones.
func NewRouter(h *Handler, verifier TokenVerifier, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	protected := r.Group("/", BearerAuth(verifier))
	protected.GET("/verify-token", h.VerifyToken)
	protected.GET("/profile", h.Profile)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response{Success: false, Message: "route not found"})
	})

	return r
}

// Server runs the HTTP endpoint with graceful shutdown.
type Server struct {
	address string
	router  *gin.Engine
	logger  logging.Logger
}

func NewServer(address string, router *gin.Engine, logger logging.Logger) *Server {
	return &Server{
		address: address,
		router:  router,
		logger:  logger.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
