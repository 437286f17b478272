package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wickmon/wickmon/internal/entity"
)

const defaultRecentLimit = 100

func recentLimit(c *gin.Context) int {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	return limit
}

func (s *Server) ListSignals(c *gin.Context) {
	signals, err := s.signals.FindRecent(c.Request.Context(), recentLimit(c))
	if err != nil {
		slog.Error("failed to list signals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, signals)
}

func (s *Server) ListOrders(c *gin.Context) {
	orders, err := s.orders.FindRecent(c.Request.Context(), recentLimit(c))
	if err != nil {
		slog.Error("failed to list orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) ListPolicies(c *gin.Context) {
	policies, err := s.policies.FindAll(c.Request.Context())
	if err != nil {
		slog.Error("failed to list policies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, policies)
}

// ReplacePolicies 整体替换监控配置, 运行中的任务要重启监控才会生效
func (s *Server) ReplacePolicies(c *gin.Context) {
	var policies []entity.MonitorPolicy
	if err := c.ShouldBindJSON(&policies); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.policies.ReplaceAll(c.Request.Context(), policies); err != nil {
		slog.Error("failed to replace policies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
