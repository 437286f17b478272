package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wickmon/wickmon/internal/entity"
)

type createCredentialRequest struct {
	Name       string `json:"name" binding:"required"`
	ApiKey     string `json:"api_key" binding:"required"`
	SecretKey  string `json:"secret_key" binding:"required"`
	WebhookURL string `json:"webhook_url"`
	Cookie     string `json:"cookie"`
}

func (s *Server) ListCredentials(c *gin.Context) {
	creds, err := s.credentials.FindAll(c.Request.Context())
	if err != nil {
		slog.Error("failed to list credentials", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, creds)
}

// CreateCredential 新建凭证并立即激活生效
func (s *Server) CreateCredential(c *gin.Context) {
	var req createCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cred := entity.Credential{
		Name:       req.Name,
		ApiKey:     req.ApiKey,
		SecretKey:  req.SecretKey,
		WebhookURL: req.WebhookURL,
		Cookie:     req.Cookie,
		IsActive:   true,
	}
	id, err := s.credentials.Create(c.Request.Context(), cred)
	if err != nil {
		slog.Error("failed to create credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.applyCredential(cred)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (s *Server) GetCurrentCredential(c *gin.Context) {
	cred, err := s.credentials.GetActive(c.Request.Context())
	if err != nil {
		slog.Error("failed to get active credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cred == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, cred)
}

func (s *Server) ActivateCredential(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err = s.credentials.Activate(c.Request.Context(), id); err != nil {
		slog.Error("failed to activate credential", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 激活后立即热应用, 不等后台巡检
	if cred, err := s.credentials.FindById(c.Request.Context(), id); err == nil && cred != nil {
		s.applyCredential(*cred)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) DeleteCredential(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err = s.credentials.DeleteById(c.Request.Context(), id); err != nil {
		slog.Error("failed to delete credential", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
