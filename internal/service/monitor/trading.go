package monitor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wickmon/wickmon/internal/entity"
)

// RoundPrice 按合约价格精度取整, 比官方精度少保留一位作为安全边际
// increment形如 "0.01"; 无法解析的格式按0位小数处理而不是报错
func RoundPrice(price float64, increment string) float64 {
	places := 0
	if i := strings.IndexByte(increment, '.'); i >= 0 {
		places = len(increment) - i - 1
	}
	if places > 0 {
		places--
	}
	return decimal.NewFromFloat(price).Round(int32(places)).InexactFloat64()
}

// ShouldPlaceOrder 阳线做多/阴线做空的方向过滤
// 只开启其中一个开关时, 相反方向的影线也会放行
func ShouldPlaceOrder(p entity.MonitorPolicy, signal entity.Signal) bool {
	switch {
	case !p.LongBullOnly && !p.ShortBearOnly:
		return true
	case p.LongBullOnly && p.ShortBearOnly:
		return (signal.CandleType == CandleTypeBull && signal.ShadowType == ShadowTypeLower) ||
			(signal.CandleType == CandleTypeBear && signal.ShadowType == ShadowTypeUpper)
	case p.LongBullOnly:
		return signal.ShadowType == ShadowTypeUpper ||
			(signal.CandleType == CandleTypeBull && signal.ShadowType == ShadowTypeLower)
	default:
		return signal.ShadowType == ShadowTypeLower ||
			(signal.CandleType == CandleTypeBear && signal.ShadowType == ShadowTypeUpper)
	}
}

// GenerateTradingSignal 把检测信号换算成下单参数, 方向不被配置允许时返回nil
func GenerateTradingSignal(signal entity.Signal, p entity.MonitorPolicy, priceIncrement string) *entity.TradingSignal {
	var direction string
	switch signal.ShadowType {
	case ShadowTypeUpper:
		direction = DirectionShort
	case ShadowTypeLower:
		direction = DirectionLong
	default:
		slog.Error("unknown shadow type", "shadow_type", signal.ShadowType)
		return nil
	}

	if (p.TradeDirection == DirectionLong && direction == DirectionShort) ||
		(p.TradeDirection == DirectionShort && direction == DirectionLong) {
		slog.Warn("trade direction mismatch", "symbol", signal.Symbol,
			"configured", p.TradeDirection, "derived", direction)
		return nil
	}

	entryPrice := signal.ClosePrice
	var stopLoss, takeProfit float64
	if direction == DirectionLong {
		stopLoss = signal.LowPrice
		takeProfit = entryPrice + signal.MainProfit*p.RiskRewardRatio
	} else {
		stopLoss = signal.HighPrice
		takeProfit = entryPrice - signal.MainProfit*p.RiskRewardRatio
	}
	stopLoss = RoundPrice(stopLoss, priceIncrement)
	takeProfit = RoundPrice(takeProfit, priceIncrement)

	confidence := ConfidenceLow
	switch {
	case signal.ShadowRatio >= 3.0 && signal.VolumeMultiplier >= 2.0:
		confidence = ConfidenceHigh
	case signal.ShadowRatio >= 2.0 && signal.VolumeMultiplier >= 1.5:
		confidence = ConfidenceMedium
	}

	wickSide := "upper"
	if direction == DirectionLong {
		wickSide = "lower"
	}
	reason := fmt.Sprintf("%s wick signal, shadow ratio %.1f:1, volume %.1fx",
		wickSide, signal.ShadowRatio, signal.VolumeMultiplier)

	return &entity.TradingSignal{
		Symbol:     signal.Symbol,
		Timestamp:  signal.Timestamp,
		Direction:  direction,
		OrderSize:  p.OrderSize,
		EntryPrice: entryPrice,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Confidence: confidence,
		Reason:     reason,
	}
}
