package monitor

import (
	"context"
	"sync"

	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/service/exchange"
)

type fakeGateway struct {
	mu sync.Mutex

	candles    []exchange.Candle
	candlesErr error

	session    exchange.SessionStatus
	sessionErr error

	orderResult exchange.OrderResult
	orderErr    error
	placed      []exchange.BracketOrder

	apiKey    string
	secretKey string
	cookie    string
	contracts map[string]entity.Contract
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		session:     exchange.SessionStatus{Valid: true},
		orderResult: exchange.OrderResult{Code: 200},
		contracts:   make(map[string]entity.Contract),
	}
}

func (f *fakeGateway) GetCandles(ctx context.Context, symbol string, interval exchange.Interval, limit int) ([]exchange.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candles, f.candlesErr
}

func (f *fakeGateway) CheckSession(ctx context.Context) (exchange.SessionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.sessionErr
}

func (f *fakeGateway) PlaceBracketOrder(ctx context.Context, order exchange.BracketOrder) (exchange.OrderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, order)
	return f.orderResult, f.orderErr
}

func (f *fakeGateway) UpdateCredentials(apiKey, secretKey string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKey = apiKey
	f.secretKey = secretKey
}

func (f *fakeGateway) SetCookie(cookie string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookie = cookie
}

func (f *fakeGateway) SetContracts(contracts string) error {
	return nil
}

func (f *fakeGateway) ContractBySymbol(symbol string) (entity.Contract, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[symbol]
	return c, ok
}

func (f *fakeGateway) placedOrders() []exchange.BracketOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]exchange.BracketOrder, len(f.placed))
	copy(out, f.placed)
	return out
}

type fakeNotifier struct {
	mu sync.Mutex

	webhook        string
	texts          []string
	signalAlerts   []entity.Signal
	tradingSignals []entity.TradingSignal
	sendErr        error
}

func (f *fakeNotifier) SetWebhook(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhook = url
}

func (f *fakeNotifier) HasWebhook() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.webhook != ""
}

func (f *fakeNotifier) SendText(ctx context.Context, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, content)
	return f.sendErr
}

func (f *fakeNotifier) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.texts))
	copy(out, f.texts)
	return out
}

func (f *fakeNotifier) SendMarkdown(ctx context.Context, title, text string) error {
	return f.sendErr
}

func (f *fakeNotifier) SendSignalAlert(ctx context.Context, signal entity.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signalAlerts = append(f.signalAlerts, signal)
	return f.sendErr
}

func (f *fakeNotifier) SendTradingSignal(ctx context.Context, signal entity.TradingSignal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tradingSignals = append(f.tradingSignals, signal)
	return f.sendErr
}

type fakeSignalRepo struct {
	mu      sync.Mutex
	saved   []entity.Signal
	nextId  int64
	saveErr error
}

func (f *fakeSignalRepo) Save(ctx context.Context, signal entity.Signal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.nextId++
	signal.Id = f.nextId
	f.saved = append(f.saved, signal)
	return f.nextId, nil
}

func (f *fakeSignalRepo) Exists(ctx context.Context, symbol string, timestamp int64, intervalType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.saved {
		if s.Symbol == symbol && s.Timestamp == timestamp && s.IntervalType == intervalType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSignalRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.saved)), nil
}

func (f *fakeSignalRepo) FindRecent(ctx context.Context, limit int) ([]entity.Signal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	saved  []entity.Order
	nextId int64
}

func (f *fakeOrderRepo) Save(ctx context.Context, order entity.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextId++
	order.Id = f.nextId
	f.saved = append(f.saved, order)
	return f.nextId, nil
}

func (f *fakeOrderRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.saved)), nil
}

func (f *fakeOrderRepo) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

type fakeCredentialRepo struct {
	mu     sync.Mutex
	active *entity.Credential
	err    error
}

func (f *fakeCredentialRepo) Create(ctx context.Context, cred entity.Credential) (int64, error) {
	return 0, nil
}

func (f *fakeCredentialRepo) FindAll(ctx context.Context) ([]entity.Credential, error) {
	return nil, nil
}

func (f *fakeCredentialRepo) FindById(ctx context.Context, id int64) (*entity.Credential, error) {
	return nil, nil
}

func (f *fakeCredentialRepo) GetActive(ctx context.Context) (*entity.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, f.err
}

func (f *fakeCredentialRepo) Activate(ctx context.Context, id int64) error { return nil }

func (f *fakeCredentialRepo) DeleteById(ctx context.Context, id int64) error { return nil }

func (f *fakeCredentialRepo) UpdateContracts(ctx context.Context, id int64, contracts string) error {
	return nil
}

func (f *fakeCredentialRepo) FindContract(ctx context.Context, symbol string) (*entity.Contract, error) {
	return nil, nil
}

func (f *fakeCredentialRepo) setActive(cred *entity.Credential) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = cred
}

type fakePolicyRepo struct {
	mu       sync.Mutex
	policies []entity.MonitorPolicy
}

func (f *fakePolicyRepo) FindAll(ctx context.Context) ([]entity.MonitorPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.policies, nil
}

func (f *fakePolicyRepo) FindActive(ctx context.Context) ([]entity.MonitorPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []entity.MonitorPolicy
	for _, p := range f.policies {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (f *fakePolicyRepo) ReplaceAll(ctx context.Context, policies []entity.MonitorPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.policies = policies
	return nil
}
