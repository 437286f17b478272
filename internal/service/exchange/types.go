package exchange

import (
	"context"

	"github.com/wickmon/wickmon/internal/entity"
)

// Candle 单根K线, 时间戳为周期起始时间(秒)
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// SessionStatus 账户会话检查结果
type SessionStatus struct {
	Info  string `json:"info"`
	Valid bool   `json:"valid"`
}

// BracketOrder 带止盈止损的下单请求
type BracketOrder struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`       // buy / sell
	OrderType  string  `json:"order_type"` // limit / market
	Price      float64 `json:"price"`
	Size       int64   `json:"size"`
	TakeProfit float64 `json:"take_profit"`
	StopLoss   float64 `json:"stop_loss"`
}

// OrderResult 下单接口的应答
type OrderResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (r OrderResult) Ok() bool {
	return r.Code == 200
}

type MarketService interface {
	// GetCandles 按时间升序返回最近 limit 根K线
	GetCandles(ctx context.Context, symbol string, interval Interval, limit int) ([]Candle, error)
}

type ContractService interface {
	GetContracts(ctx context.Context) ([]entity.Contract, error)
}

type AccountService interface {
	CheckSession(ctx context.Context) (SessionStatus, error)
}

type TradingService interface {
	PlaceBracketOrder(ctx context.Context, order BracketOrder) (OrderResult, error)
}

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

func (i Interval) ToString() string {
	return string(i)
}

// Minutes 未知周期返回 0, 调度前必须拒绝
func (i Interval) Minutes() float64 {
	switch i {
	case Interval1m:
		return 1
	case Interval3m:
		return 3
	case Interval5m:
		return 5
	case Interval15m:
		return 15
	case Interval30m:
		return 30
	case Interval1h:
		return 60
	case Interval4h:
		return 240
	case Interval1d:
		return 1440
	default:
		return 0
	}
}

func (i Interval) Seconds() int64 {
	return int64(i.Minutes() * 60)
}
