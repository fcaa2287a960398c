package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"certinator/internal/config"
	"certinator/internal/domain"
	"certinator/internal/logging"
	"certinator/internal/services"
)

// Server exposes the certificate service over HTTP.
type Server struct {
	service  *services.CertificateService
	defaults domain.Options
	names    config.NamesConfig
	maxBytes int64
}

func NewServer(service *services.CertificateService, cfg config.Config) *Server {
	return &Server{
		service:  service,
		defaults: cfg.Render,
		names:    cfg.Names,
		maxBytes: cfg.HTTP.MaxUploadBytes,
	}
}

func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())
	r.MaxMultipartMemory = s.maxBytes

	RegisterRoutes(r, s)
	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/preview", s.previewHandler)
		api.POST("/certificates", s.certificatesHandler)
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = xid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logging.Info("Request handled",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
