package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/repo"
	"github.com/wickmon/wickmon/internal/service/exchange"
	"github.com/wickmon/wickmon/internal/service/notification"
	"github.com/wickmon/wickmon/pkg/timeoutx"
)

const (
	sessionCheckTimeout = 60 * time.Second
	configCheckTimeout  = 30 * time.Second
)

type Option func(*Service)

func WithSessionCheckInterval(d time.Duration) Option {
	return func(s *Service) {
		s.sessionCheckEvery = d
	}
}

func WithConfigCheckInterval(d time.Duration) Option {
	return func(s *Service) {
		s.configCheckEvery = d
	}
}

func WithHeartbeatInterval(d time.Duration) Option {
	return func(s *Service) {
		s.heartbeatEvery = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service 监控编排器: 按策略启动/停止轮询任务, 并维护会话和配置热更新
type Service struct {
	gateway     ExchangeGateway
	notifier    notification.Service
	credentials repo.CredentialRepo
	policies    repo.PolicyRepo
	signals     repo.SignalRepo
	orders      repo.OrderRepo

	sessionCheckEvery time.Duration
	configCheckEvery  time.Duration
	heartbeatEvery    time.Duration
	now               func() time.Time

	mu         sync.Mutex
	running    atomic.Bool
	cancel     context.CancelFunc
	activeKeys []string

	lastAppliedMu sync.Mutex
	lastApplied   int64
}

func NewService(gateway ExchangeGateway, notifier notification.Service,
	credentials repo.CredentialRepo, policies repo.PolicyRepo,
	signals repo.SignalRepo, orders repo.OrderRepo, opts ...Option) *Service {
	s := &Service{
		gateway:           gateway,
		notifier:          notifier,
		credentials:       credentials,
		policies:          policies,
		signals:           signals,
		orders:            orders,
		sessionCheckEvery: 5 * time.Minute,
		configCheckEvery:  30 * time.Second,
		heartbeatEvery:    2 * time.Minute,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start 启动所有激活策略的轮询任务
// 没有激活的策略或凭证时拒绝启动
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ErrAlreadyRunning
	}

	policies, err := s.policies.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("load active policies: %w", err)
	}
	if len(policies) == 0 {
		return ErrNoActivePolicy
	}

	cred, err := s.credentials.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load active credential: %w", err)
	}
	if cred == nil {
		return ErrNoActiveCredential
	}
	s.applyCredential(*cred)

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running.Store(true)
	s.activeKeys = s.activeKeys[:0]

	for _, policy := range policies {
		if err := validatePolicy(policy); err != nil {
			slog.Error("skipping invalid policy", "symbol", policy.Symbol,
				"interval", policy.IntervalType, "error", err)
			continue
		}
		p := newPoller(policy, s.gateway, s.notifier, s.signals, s.orders, &s.running)
		s.activeKeys = append(s.activeKeys, policy.Key())
		go p.run(runCtx)
	}
	sort.Strings(s.activeKeys)
	go s.watch(runCtx)

	slog.Info("monitor started", "tasks", len(s.activeKeys), "keys", strings.Join(s.activeKeys, ","))
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.activeKeys = nil
	slog.Info("monitor stopped")
	return nil
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// Status 汇总运行状态, 统计查询失败时退化为0而不是报错
func (s *Service) Status(ctx context.Context) Status {
	s.mu.Lock()
	keys := make([]string, len(s.activeKeys))
	copy(keys, s.activeKeys)
	s.mu.Unlock()

	status := Status{
		IsRunning:     s.running.Load(),
		ActiveSymbols: keys,
	}
	if status.IsRunning {
		ts := s.now().Unix()
		status.LastCheck = &ts
	}

	if n, err := s.signals.Count(ctx); err == nil {
		status.TotalSignals = n
	} else {
		slog.Error("failed to count signals", "error", err)
	}
	if n, err := s.orders.Count(ctx); err == nil {
		status.TotalOrders = n
	} else {
		slog.Error("failed to count orders", "error", err)
	}
	if cred, err := s.credentials.GetActive(ctx); err == nil && cred != nil {
		if contracts, err := cred.ParseContracts(); err == nil {
			status.TotalContracts = int64(len(contracts))
		}
	}
	return status
}

func validatePolicy(p entity.MonitorPolicy) error {
	if exchange.Interval(p.IntervalType).Seconds() <= 0 {
		return fmt.Errorf("unknown interval type %q", p.IntervalType)
	}
	if p.Frequency <= 0 {
		return fmt.Errorf("frequency must be positive, got %d", p.Frequency)
	}
	return nil
}

// watch 后台巡检: 会话有效性 / 配置热更新 / 心跳日志
func (s *Service) watch(ctx context.Context) {
	sessionTicker := time.NewTicker(s.sessionCheckEvery)
	defer sessionTicker.Stop()
	configTicker := time.NewTicker(s.configCheckEvery)
	defer configTicker.Stop()
	heartbeatTicker := time.NewTicker(s.heartbeatEvery)
	defer heartbeatTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor watcher exiting")
			return
		case <-sessionTicker.C:
			s.checkSession(ctx)
		case <-configTicker.C:
			if err := s.reloadConfig(ctx); err != nil {
				slog.Error("config reload failed", "error", err)
			}
		case <-heartbeatTicker.C:
			s.mu.Lock()
			tasks := len(s.activeKeys)
			s.mu.Unlock()
			slog.Info("monitor heartbeat", "tasks", tasks)
		}
	}
}

func (s *Service) checkSession(ctx context.Context) {
	status, err := timeoutx.Call(ctx, sessionCheckTimeout, s.gateway.CheckSession)
	if err != nil {
		if strings.Contains(err.Error(), "403") {
			slog.Error("session check blocked, possible ip restriction", "error", err)
			s.alert(ctx, "⚠️ kline monitor: session check got 403, request blocked or ip restricted")
		} else {
			slog.Error("session check failed", "error", err)
		}
		return
	}
	if !status.Valid {
		slog.Error("exchange session expired", "info", status.Info)
		s.alert(ctx, fmt.Sprintf("⚠️ kline monitor: exchange session expired, update the cookie. detail: %s", status.Info))
		return
	}
	slog.Info("exchange session ok")
}

// reloadConfig 发现更新的激活凭证时热替换到网关, 不重启轮询任务
func (s *Service) reloadConfig(ctx context.Context) error {
	cred, err := timeoutx.Call(ctx, configCheckTimeout, s.credentials.GetActive)
	if err != nil {
		return fmt.Errorf("load active credential: %w", err)
	}
	if cred == nil {
		slog.Warn("no active credential during reload, keeping current one")
		return nil
	}

	s.lastAppliedMu.Lock()
	stale := cred.UpdatedAt <= s.lastApplied
	s.lastAppliedMu.Unlock()
	if stale {
		return nil
	}

	s.applyCredential(*cred)
	slog.Info("credential hot reloaded", "credential", cred.Name, "updated_at", cred.UpdatedAt)
	return nil
}

func (s *Service) applyCredential(cred entity.Credential) {
	s.gateway.UpdateCredentials(cred.ApiKey, cred.SecretKey)
	if cred.Cookie != "" {
		s.gateway.SetCookie(cred.Cookie)
	}
	if cred.Contracts != "" {
		if err := s.gateway.SetContracts(cred.Contracts); err != nil {
			slog.Error("failed to parse contract cache", "credential", cred.Name, "error", err)
		}
	}
	if cred.WebhookURL != "" {
		s.notifier.SetWebhook(cred.WebhookURL)
	}

	s.lastAppliedMu.Lock()
	s.lastApplied = cred.UpdatedAt
	s.lastAppliedMu.Unlock()
}

func (s *Service) alert(ctx context.Context, text string) {
	if !s.notifier.HasWebhook() {
		return
	}
	if err := timeoutx.Do(ctx, notifyTimeout, func(ctx context.Context) error {
		return s.notifier.SendText(ctx, text)
	}); err != nil {
		slog.Error("failed to send monitor alert", "error", err)
	}
}
