package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/repo"
	"github.com/wickmon/wickmon/internal/service/exchange"
	"github.com/wickmon/wickmon/internal/service/notification"
	"github.com/wickmon/wickmon/pkg/timeoutx"
)

const (
	fetchLimit           = 50
	minCandles           = 5
	maxConsecutiveErrors = 5

	tickTimeout   = 30 * time.Second
	fetchTimeout  = 10 * time.Second
	notifyTimeout = 10 * time.Second
	orderTimeout  = 30 * time.Second
)

// poller 单个(交易对, 周期)的轮询任务
type poller struct {
	policy   entity.MonitorPolicy
	gateway  ExchangeGateway
	notifier notification.Service
	signals  repo.SignalRepo
	orders   repo.OrderRepo

	running *atomic.Bool
	now     func() time.Time
	tick    time.Duration
	retry   *backoff.Backoff
}

func newPoller(policy entity.MonitorPolicy, gateway ExchangeGateway, notifier notification.Service,
	signals repo.SignalRepo, orders repo.OrderRepo, running *atomic.Bool) *poller {
	return &poller{
		policy:   policy,
		gateway:  gateway,
		notifier: notifier,
		signals:  signals,
		orders:   orders,
		running:  running,
		now:      time.Now,
		tick:     time.Duration(policy.Frequency) * time.Second,
		retry:    &backoff.Backoff{Min: 5 * time.Second, Max: 30 * time.Second, Factor: 2},
	}
}

func (p *poller) run(ctx context.Context) {
	slog.Info("starting symbol poller", "symbol", p.policy.Symbol, "interval", p.policy.IntervalType)

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	consecutiveErrors := 0

	for {
		select {
		case <-ctx.Done():
			slog.Warn("symbol poller cancelled", "symbol", p.policy.Symbol)
			return
		case <-ticker.C:
		}

		if !p.running.Load() {
			slog.Warn("symbol poller stopping", "symbol", p.policy.Symbol)
			return
		}

		err := timeoutx.Do(ctx, tickTimeout, p.checkOnce)
		if err == nil {
			if consecutiveErrors > 0 {
				slog.Info("symbol poller recovered", "symbol", p.policy.Symbol,
					"after_errors", consecutiveErrors)
			}
			consecutiveErrors = 0
			p.retry.Reset()
			continue
		}

		consecutiveErrors++
		slog.Error("symbol poller tick failed", "symbol", p.policy.Symbol,
			"attempt", consecutiveErrors, "max", maxConsecutiveErrors, "error", err)

		if consecutiveErrors >= maxConsecutiveErrors {
			slog.Error("symbol poller failed too many times, stopping task",
				"symbol", p.policy.Symbol, "errors", consecutiveErrors)
			p.alertExhausted(ctx)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.retry.Duration()):
		}
	}
}

// alertExhausted 任务自杀前的尽力而为报警
func (p *poller) alertExhausted(ctx context.Context) {
	if !p.notifier.HasWebhook() {
		return
	}
	err := timeoutx.Do(ctx, notifyTimeout, func(ctx context.Context) error {
		return p.notifier.SendText(ctx, fmt.Sprintf(
			"⚠️ kline monitor: %s poller failed %d times consecutively and stopped, check network and api status",
			p.policy.Symbol, maxConsecutiveErrors))
	})
	if err != nil {
		slog.Error("failed to send exhaustion alert", "symbol", p.policy.Symbol, "error", err)
	}
}

func (p *poller) checkOnce(ctx context.Context) error {
	symbol := p.policy.Symbol
	interval := exchange.Interval(p.policy.IntervalType)

	slog.Info("checking signals", "symbol", symbol, "interval", p.policy.IntervalType)

	candles, err := timeoutx.Call(ctx, fetchTimeout, func(ctx context.Context) ([]exchange.Candle, error) {
		return p.gateway.GetCandles(ctx, symbol, interval, fetchLimit)
	})
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	if len(candles) < minCandles {
		slog.Warn("insufficient candle data", "symbol", symbol, "count", len(candles))
		return nil
	}

	// 最后一根K线还没走完时用倒数第二根, 避免对未收盘数据动作
	last := candles[len(candles)-1]
	var latest exchange.Candle
	var history []exchange.Candle
	if p.now().Unix() < last.Timestamp+interval.Seconds() {
		latest = candles[len(candles)-2]
		history = candles[:len(candles)-2]
	} else {
		latest = last
		history = candles[:len(candles)-1]
	}

	signal := DetectSignal(latest, history, p.policy)
	if signal == nil {
		return nil
	}

	exists, err := p.signals.Exists(ctx, symbol, signal.Timestamp, p.policy.IntervalType)
	if err != nil {
		return fmt.Errorf("check signal exists: %w", err)
	}
	if exists {
		slog.Warn("signal already recorded", "symbol", symbol, "timestamp", signal.Timestamp)
		return nil
	}

	if !ShouldPlaceOrder(p.policy, *signal) {
		slog.Warn("signal filtered by direction gates", "symbol", symbol,
			"candle_type", signal.CandleType, "shadow_type", signal.ShadowType,
			"long_bull_only", p.policy.LongBullOnly, "short_bear_only", p.policy.ShortBearOnly)
		return nil
	}

	expectedProfit := signal.MainProfit / last.Close * 100
	if expectedProfit <= p.policy.ExpectedProfitRate {
		slog.Warn("signal filtered by expected profit", "symbol", symbol,
			"profit_pct", expectedProfit, "threshold_pct", p.policy.ExpectedProfitRate)
		return nil
	}

	signalId, err := p.signals.Save(ctx, *signal)
	if err != nil {
		return fmt.Errorf("save signal: %w", err)
	}
	slog.Info("new signal detected", "symbol", symbol, "id", signalId,
		"candle_type", signal.CandleType, "shadow_type", signal.ShadowType,
		"shadow_ratio", signal.ShadowRatio, "volume_multiplier", signal.VolumeMultiplier)

	if p.policy.EnableAlert && p.notifier.HasWebhook() {
		if err = timeoutx.Do(ctx, notifyTimeout, func(ctx context.Context) error {
			return p.notifier.SendSignalAlert(ctx, *signal)
		}); err != nil {
			slog.Error("failed to send signal alert", "symbol", symbol, "error", err)
		}
	}

	if !p.policy.EnableAutoTrading {
		return nil
	}

	contract, ok := p.gateway.ContractBySymbol(symbol)
	if !ok {
		slog.Warn("no contract metadata for symbol, skipping order", "symbol", symbol)
		return nil
	}

	tradingSignal := GenerateTradingSignal(*signal, p.policy, contract.OrderPriceRound)
	if tradingSignal == nil {
		return nil
	}
	p.placeOrder(ctx, *tradingSignal, signalId)
	return nil
}

// placeOrder 下单和落库都是尽力而为, 失败不回滚已保存的信号
func (p *poller) placeOrder(ctx context.Context, signal entity.TradingSignal, signalId int64) {
	side := "sell"
	if signal.Direction == DirectionLong {
		side = "buy"
	}

	result, err := timeoutx.Call(ctx, orderTimeout, func(ctx context.Context) (exchange.OrderResult, error) {
		return p.gateway.PlaceBracketOrder(ctx, exchange.BracketOrder{
			Symbol:     signal.Symbol,
			Side:       side,
			OrderType:  p.policy.OrderType,
			Price:      signal.EntryPrice,
			Size:       signal.OrderSize,
			TakeProfit: signal.TakeProfit,
			StopLoss:   signal.StopLoss,
		})
	})
	switch {
	case err != nil:
		slog.Error("failed to place order", "symbol", signal.Symbol, "error", err)
	case !result.Ok():
		slog.Error("order rejected", "symbol", signal.Symbol,
			"code", result.Code, "message", result.Message)
	default:
		slog.Info("order placed", "symbol", signal.Symbol, "side", side,
			"entry", signal.EntryPrice, "stop_loss", signal.StopLoss, "take_profit", signal.TakeProfit)
	}

	if p.policy.EnableAlert && p.notifier.HasWebhook() {
		if err = timeoutx.Do(ctx, notifyTimeout, func(ctx context.Context) error {
			return p.notifier.SendTradingSignal(ctx, signal)
		}); err != nil {
			slog.Error("failed to send trading signal alert", "symbol", signal.Symbol, "error", err)
		}
	}

	riskReward := 0.0
	if diff := math.Abs(signal.EntryPrice - signal.StopLoss); diff != 0 {
		riskReward = math.Abs(signal.TakeProfit-signal.EntryPrice) / diff
	}
	if _, err = p.orders.Save(ctx, entity.Order{
		Symbol:          signal.Symbol,
		Side:            side,
		OrderSize:       signal.OrderSize,
		EntryPrice:      signal.EntryPrice,
		TakeProfitPrice: signal.TakeProfit,
		StopLossPrice:   signal.StopLoss,
		RiskRewardRatio: riskReward,
		SignalId:        signalId,
		Timestamp:       signal.Timestamp,
	}); err != nil {
		slog.Error("failed to save order record", "symbol", signal.Symbol, "error", err)
	}
}
