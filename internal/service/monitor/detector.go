package monitor

import (
	"log/slog"
	"math"

	"github.com/samber/lo"
	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/service/exchange"
)

// 只有一边有影线时放大比例, 保证比例阈值一定通过
const soloShadowMultiplier = 10000.0

// DetectSignal 在一根已收盘的K线上检测长影线信号
// 纯函数, 相同输入必须得到相同输出; 不满足条件时返回nil
func DetectSignal(latest exchange.Candle, history []exchange.Candle, p entity.MonitorPolicy) *entity.Signal {
	bodyLength := math.Abs(latest.Close - latest.Open)
	upperShadow := latest.High - math.Max(latest.Close, latest.Open)
	upperProfit := latest.High - latest.Close
	lowerShadow := math.Min(latest.Open, latest.Close) - latest.Low
	lowerProfit := latest.Close - latest.Low

	hasLongUpper := upperShadow > bodyLength*p.ShadowBodyRatio
	hasLongLower := lowerShadow > bodyLength*p.ShadowBodyRatio
	if !hasLongUpper && !hasLongLower {
		slog.Debug("no qualifying shadow", "symbol", p.Symbol, "shadow_body_ratio", p.ShadowBodyRatio)
		return nil
	}

	var (
		shadowType       string
		mainShadowLength float64
		mainProfit       float64
		otherShadow      float64
	)
	// 两边都够长时取更长的一边, 相等偏向上影线
	if hasLongUpper && (!hasLongLower || upperShadow >= lowerShadow) {
		shadowType = ShadowTypeUpper
		mainShadowLength = upperShadow
		mainProfit = upperProfit
		otherShadow = lowerShadow
	} else {
		shadowType = ShadowTypeLower
		mainShadowLength = lowerShadow
		mainProfit = lowerProfit
		otherShadow = upperShadow
	}

	shadowRatio := mainShadowLength * soloShadowMultiplier
	if otherShadow > 0 {
		shadowRatio = mainShadowLength / otherShadow
	}
	if shadowRatio < p.ShadowRatio {
		slog.Debug("shadow ratio below threshold", "symbol", p.Symbol,
			"ratio", shadowRatio, "threshold", p.ShadowRatio)
		return nil
	}

	intervalMinutes := exchange.Interval(p.IntervalType).Minutes()
	if intervalMinutes <= 0 {
		slog.Debug("unknown interval type", "symbol", p.Symbol, "interval", p.IntervalType)
		return nil
	}
	requiredHistory := int(p.LookbackHours * 60 / intervalMinutes)
	if requiredHistory <= 0 || requiredHistory > len(history) {
		slog.Debug("not enough historical data", "symbol", p.Symbol,
			"required", requiredHistory, "available", len(history))
		return nil
	}

	window := history[len(history)-requiredHistory:]
	avgVolume := lo.SumBy(window, func(c exchange.Candle) float64 {
		return c.Volume
	}) / float64(len(window))

	volumeMultiplier := latest.Volume / avgVolume
	if volumeMultiplier < p.VolumeMultiplier {
		slog.Debug("volume multiplier below threshold", "symbol", p.Symbol,
			"multiplier", volumeMultiplier, "threshold", p.VolumeMultiplier)
		return nil
	}

	candleType := CandleTypeBear
	if latest.Close > latest.Open {
		candleType = CandleTypeBull
	}

	return &entity.Signal{
		Symbol:           p.Symbol,
		Timestamp:        latest.Timestamp,
		OpenPrice:        latest.Open,
		HighPrice:        latest.High,
		LowPrice:         latest.Low,
		ClosePrice:       latest.Close,
		Volume:           latest.Volume,
		IntervalType:     p.IntervalType,
		CandleType:       candleType,
		ShadowType:       shadowType,
		BodyLength:       bodyLength,
		MainShadowLength: mainShadowLength,
		MainProfit:       mainProfit,
		ShadowRatio:      shadowRatio,
		VolumeMultiplier: volumeMultiplier,
		AvgVolume:        avgVolume,
	}
}
