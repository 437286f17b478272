package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) StartMonitor(c *gin.Context) {
	if err := s.monitor.Start(c.Request.Context()); err != nil {
		slog.Error("failed to start monitor", "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("start failed: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "monitor started"})
}

func (s *Server) StopMonitor(c *gin.Context) {
	if err := s.monitor.Stop(c.Request.Context()); err != nil {
		slog.Error("failed to stop monitor", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "monitor stopped"})
}

func (s *Server) MonitorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Status(c.Request.Context()))
}

// FetchContracts 从交易所拉取全量合约元数据并缓存到激活凭证
func (s *Server) FetchContracts(c *gin.Context) {
	ctx := c.Request.Context()

	cred, err := s.credentials.GetActive(ctx)
	if err != nil {
		slog.Error("failed to get active credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cred == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "no active credential"})
		return
	}

	contracts, err := s.gateway.GetContracts(ctx)
	if err != nil {
		slog.Error("failed to fetch contracts", "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("fetch contracts failed: %v", err)})
		return
	}

	raw, err := json.Marshal(contracts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err = s.credentials.UpdateContracts(ctx, cred.Id, string(raw)); err != nil {
		slog.Error("failed to cache contracts", "credential", cred.Name, "error", err)
	}
	if err = s.gateway.SetContracts(string(raw)); err != nil {
		slog.Error("failed to apply contract cache", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(contracts),
		"data":    contracts,
		"message": fmt.Sprintf("fetched %d contracts", len(contracts)),
	})
}

// TestNotify 用激活凭证的webhook发送一条测试消息
func (s *Server) TestNotify(c *gin.Context) {
	ctx := c.Request.Context()

	cred, err := s.credentials.GetActive(ctx)
	if err != nil {
		slog.Error("failed to get active credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cred == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "no active credential"})
		return
	}
	if cred.WebhookURL == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "no webhook url configured"})
		return
	}

	s.notifier.SetWebhook(cred.WebhookURL)
	if err = s.notifier.SendText(ctx, "kline monitor: webhook test message"); err != nil {
		slog.Error("webhook test failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("webhook test failed: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "test message sent, check the group chat"})
}
