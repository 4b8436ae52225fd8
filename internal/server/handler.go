package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth-control-plane/internal/identity/service"
)

const (
	msgUnauthorized = "invalid username or password"
	msgServerError  = "An error occurred during login"
)

// AuthService is the orchestrator surface the HTTP boundary needs.
type AuthService interface {
	Login(ctx context.Context, username, password, device, ip string) (*service.AuthResult, error)
	Renew(ctx context.Context, renewalToken, device, ip string) (*service.AuthResult, error)
	CompleteMFA(ctx context.Context, challengeRef, device, ip string) (*service.AuthResult, error)
	Logout(ctx context.Context, renewalToken, device, ip string) error
	LogoutAll(ctx context.Context, renewalToken, device, ip string) error
}

// Pinger reports storage reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker reports policy engine health for the health endpoint.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	auth   AuthService
	db     Pinger
	policy PolicyChecker
}

func NewHandler(auth AuthService, db Pinger, policy PolicyChecker) *Handler {
	return &Handler{auth: auth, db: db, policy: policy}
}

// RegisterRoutes mounts the authentication API on the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.healthz)

	grp := router.Group("/api/auth")
	grp.POST("/login", h.login)
	grp.POST("/refresh", h.refresh)
	grp.POST("/mfa/complete", h.completeMFA)
	grp.POST("/logout", h.logout)
	grp.POST("/logout/all", h.logoutAll)
}

func (h *Handler) login(ctx *gin.Context) {
	req := new(loginRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusUnauthorized, messageResponse{Message: msgUnauthorized})
		return
	}

	res, err := h.auth.Login(ctx.Request.Context(), req.Username, req.Password, device(ctx), ctx.ClientIP())
	if h.handleErr(ctx, err) {
		return
	}
	ctx.JSON(http.StatusOK, toTokenResponse(res))
}

func (h *Handler) refresh(ctx *gin.Context) {
	req := new(refreshRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusUnauthorized, messageResponse{Message: msgUnauthorized})
		return
	}

	res, err := h.auth.Renew(ctx.Request.Context(), req.RefreshToken, device(ctx), ctx.ClientIP())
	if h.handleErr(ctx, err) {
		return
	}
	ctx.JSON(http.StatusOK, toTokenResponse(res))
}

func (h *Handler) completeMFA(ctx *gin.Context) {
	req := new(mfaCompleteRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusUnauthorized, messageResponse{Message: msgUnauthorized})
		return
	}

	res, err := h.auth.CompleteMFA(ctx.Request.Context(), req.MFAChallenge, device(ctx), ctx.ClientIP())
	if h.handleErr(ctx, err) {
		return
	}
	ctx.JSON(http.StatusOK, toTokenResponse(res))
}

func (h *Handler) logout(ctx *gin.Context) {
	req := new(refreshRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	if err := h.auth.Logout(ctx.Request.Context(), req.RefreshToken, device(ctx), ctx.ClientIP()); err != nil {
		log.Printf("server: logout: %v", err)
		ctx.JSON(http.StatusInternalServerError, messageResponse{Message: msgServerError})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *Handler) logoutAll(ctx *gin.Context) {
	req := new(refreshRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	if err := h.auth.LogoutAll(ctx.Request.Context(), req.RefreshToken, device(ctx), ctx.ClientIP()); err != nil {
		log.Printf("server: logout all: %v", err)
		ctx.JSON(http.StatusInternalServerError, messageResponse{Message: msgServerError})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *Handler) healthz(ctx *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": err.Error()})
			return
		}
	}
	if h.policy != nil {
		if err := h.policy.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "policy": err.Error()})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleErr writes the error response and reports whether it did. Every
// credential failure gets the same body so the boundary leaks nothing the
// orchestrator hid.
func (h *Handler) handleErr(ctx *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, service.ErrUnauthorized) {
		ctx.JSON(http.StatusUnauthorized, messageResponse{Message: msgUnauthorized})
		return true
	}
	log.Printf("server: %s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
	ctx.JSON(http.StatusInternalServerError, messageResponse{Message: msgServerError})
	return true
}

func device(ctx *gin.Context) string {
	return ctx.Request.UserAgent()
}

func toTokenResponse(res *service.AuthResult) tokenResponse {
	out := tokenResponse{
		RequiresMFA:  res.RequiresMFA,
		MFAChallenge: res.MFAChallenge,
	}
	if res.RequiresMFA {
		return out
	}
	out.AccessToken = res.AccessToken
	out.RefreshToken = res.RenewalToken
	accessExp := res.AccessExpiresAt
	renewalExp := res.RenewalExpiresAt
	out.AccessTokenExpiry = &accessExp
	out.RefreshTokenExpiry = &renewalExp
	return out
}
