// Package httpapi exposes the sync protocol over HTTP: bearer-authorized
// push/pull plus the login endpoint that issues sessions.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasku-app/kasku/internal/logging"
	"github.com/kasku-app/kasku/internal/server/models"
	"github.com/kasku-app/kasku/internal/syncapi"
)

// AuthService is the slice of the auth application service the HTTP layer
// needs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ResolveToken(ctx context.Context, token string) (*models.Session, error)
}

// SyncService is the slice of the sync application service the HTTP layer
// needs.
type SyncService interface {
	Push(ctx context.Context, userID string, req *syncapi.PushRequest) (*syncapi.PushResponse, error)
	Pull(ctx context.Context, userID, companyID string, since time.Time) (*syncapi.PullResponse, error)
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(logger logging.Logger, authSvc AuthService, syncSvc SyncService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	h := &handlers{authSvc: authSvc, syncSvc: syncSvc, logger: logger}

	r.GET("/healthz", h.healthz)
	r.POST("/auth/login", h.login)

	authorized := r.Group("/sync", AuthRequired(authSvc))
	authorized.POST("/push", h.push)
	authorized.GET("/pull", h.pull)

	return r
}
