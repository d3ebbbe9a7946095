package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/logging"
	"github.com/kasku-app/kasku/internal/server/models"
	"github.com/kasku-app/kasku/internal/syncapi"
)

type handlers struct {
	authSvc AuthService
	syncSvc SyncService
	logger  logging.Logger
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, syncapi.ErrorResponse{Error: syncapi.CodeInvalidRequest})
		return
	}

	token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, syncapi.ErrorResponse{Error: syncapi.CodeAuthError})
			return
		}
		h.internalError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token})
}

func (h *handlers) push(c *gin.Context) {
	session := currentSession(c)

	var req syncapi.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CompanyID == "" {
		c.JSON(http.StatusBadRequest, syncapi.ErrorResponse{Error: syncapi.CodeInvalidRequest})
		return
	}

	resp, err := h.syncSvc.Push(c.Request.Context(), session.UserID, &req)
	if err != nil {
		if errors.Is(err, common.ErrNotMemberOfCompany) {
			c.JSON(http.StatusForbidden, syncapi.ErrorResponse{Error: syncapi.CodeNotMemberOfCompany})
			return
		}
		h.internalError(c, "push failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handlers) pull(c *gin.Context) {
	session := currentSession(c)

	companyID := c.Query("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, syncapi.ErrorResponse{Error: syncapi.CodeInvalidRequest})
		return
	}

	// Absent since means "everything": pull from the epoch.
	since := time.Unix(0, 0).UTC()
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, syncapi.ErrorResponse{Error: syncapi.CodeInvalidRequest})
			return
		}
		since = parsed
	}

	resp, err := h.syncSvc.Pull(c.Request.Context(), session.UserID, companyID, since)
	if err != nil {
		if errors.Is(err, common.ErrNotMemberOfCompany) {
			c.JSON(http.StatusForbidden, syncapi.ErrorResponse{Error: syncapi.CodeNotMemberOfCompany})
			return
		}
		h.internalError(c, "pull failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handlers) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(c.Request.Context(), msg, "error", err)
	c.JSON(http.StatusInternalServerError, syncapi.ErrorResponse{Error: syncapi.CodeInternalError})
}

func currentSession(c *gin.Context) *models.Session {
	return c.MustGet(ctxKeySession).(*models.Session)
}
