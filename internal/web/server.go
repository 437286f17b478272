package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/repo"
	"github.com/wickmon/wickmon/internal/service/exchange"
	"github.com/wickmon/wickmon/internal/service/monitor"
	"github.com/wickmon/wickmon/internal/service/notification"
)

// Gateway 管理接口需要的交易所能力
type Gateway interface {
	exchange.ContractService

	UpdateCredentials(apiKey, secretKey string)
	SetCookie(cookie string)
	SetContracts(contracts string) error
}

type Server struct {
	gateway     Gateway
	monitor     *monitor.Service
	notifier    notification.Service
	credentials repo.CredentialRepo
	policies    repo.PolicyRepo
	signals     repo.SignalRepo
	orders      repo.OrderRepo
}

func NewServer(gateway Gateway, monitorSvc *monitor.Service, notifier notification.Service,
	credentials repo.CredentialRepo, policies repo.PolicyRepo,
	signals repo.SignalRepo, orders repo.OrderRepo) *Server {
	return &Server{
		gateway:     gateway,
		monitor:     monitorSvc,
		notifier:    notifier,
		credentials: credentials,
		policies:    policies,
		signals:     signals,
		orders:      orders,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/keys", s.ListCredentials)
		api.POST("/keys", s.CreateCredential)
		api.GET("/keys/current", s.GetCurrentCredential)
		api.POST("/keys/:id/activate", s.ActivateCredential)
		api.DELETE("/keys/:id", s.DeleteCredential)

		api.POST("/contracts/fetch", s.FetchContracts)

		api.POST("/monitor/start", s.StartMonitor)
		api.POST("/monitor/stop", s.StopMonitor)
		api.GET("/monitor/status", s.MonitorStatus)

		api.GET("/signals", s.ListSignals)
		api.GET("/orders", s.ListOrders)

		api.GET("/configs", s.ListPolicies)
		api.PUT("/configs", s.ReplacePolicies)

		api.GET("/notify/test", s.TestNotify)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// applyCredential 把凭证热应用到网关和报警通道
func (s *Server) applyCredential(cred entity.Credential) {
	s.gateway.UpdateCredentials(cred.ApiKey, cred.SecretKey)
	if cred.Cookie != "" {
		s.gateway.SetCookie(cred.Cookie)
	}
	if cred.Contracts != "" {
		_ = s.gateway.SetContracts(cred.Contracts)
	}
	if cred.WebhookURL != "" {
		s.notifier.SetWebhook(cred.WebhookURL)
	}
}
