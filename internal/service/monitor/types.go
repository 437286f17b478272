package monitor

import (
	"errors"

	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/service/exchange"
)

var (
	ErrAlreadyRunning     = errors.New("monitor is already running")
	ErrNoActivePolicy     = errors.New("no active monitor policy found")
	ErrNoActiveCredential = errors.New("no active credential found")
)

// ExchangeGateway 轮询任务依赖的交易所能力
// 凭证热替换方法只允许编排器和启动流程调用
type ExchangeGateway interface {
	exchange.MarketService
	exchange.AccountService
	exchange.TradingService

	UpdateCredentials(apiKey, secretKey string)
	SetCookie(cookie string)
	SetContracts(contracts string) error
	ContractBySymbol(symbol string) (entity.Contract, bool)
}

type Status struct {
	IsRunning      bool     `json:"is_running"`
	ActiveSymbols  []string `json:"active_symbols"`
	LastCheck      *int64   `json:"last_check,omitempty"`
	TotalSignals   int64    `json:"total_signals"`
	TotalOrders    int64    `json:"total_orders"`
	TotalContracts int64    `json:"total_contracts"`
}

const (
	CandleTypeBull = "bull"
	CandleTypeBear = "bear"

	ShadowTypeUpper = "upper"
	ShadowTypeLower = "lower"

	DirectionLong  = "long"
	DirectionShort = "short"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)
