package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wickmon/wickmon/internal/entity"
)

func TestRoundPrice(t *testing.T) {
	testCases := []struct {
		name      string
		price     float64
		increment string
		want      float64
	}{
		{name: "two decimals keeps one", price: 1.2345, increment: "0.01", want: 1.2},
		{name: "three decimals keeps two", price: 1.2345, increment: "0.001", want: 1.23},
		{name: "rounds half away from zero", price: 1.25, increment: "0.01", want: 1.3},
		{name: "integer increment", price: 1.5, increment: "1", want: 2},
		{name: "integer increment down", price: 1.4, increment: "1", want: 1},
		{name: "one decimal rounds to integer", price: 123.456, increment: "0.1", want: 123},
		{name: "malformed increment treated as integer", price: 1.9, increment: "1a", want: 2},
		{name: "empty increment", price: 7.7, increment: "", want: 8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, RoundPrice(tc.price, tc.increment), 1e-9)
		})
	}
}

func TestShouldPlaceOrder(t *testing.T) {
	signals := map[string]entity.Signal{
		"bull_lower": {CandleType: CandleTypeBull, ShadowType: ShadowTypeLower},
		"bull_upper": {CandleType: CandleTypeBull, ShadowType: ShadowTypeUpper},
		"bear_lower": {CandleType: CandleTypeBear, ShadowType: ShadowTypeLower},
		"bear_upper": {CandleType: CandleTypeBear, ShadowType: ShadowTypeUpper},
	}

	testCases := []struct {
		name          string
		longBullOnly  bool
		shortBearOnly bool
		want          map[string]bool
	}{
		{
			name: "both gates off",
			want: map[string]bool{
				"bull_lower": true, "bull_upper": true,
				"bear_lower": true, "bear_upper": true,
			},
		},
		{
			name: "both gates on", longBullOnly: true, shortBearOnly: true,
			want: map[string]bool{
				"bull_lower": true, "bull_upper": false,
				"bear_lower": false, "bear_upper": true,
			},
		},
		{
			name: "long bull only", longBullOnly: true,
			want: map[string]bool{
				"bull_lower": true, "bull_upper": true,
				"bear_lower": false, "bear_upper": true,
			},
		},
		{
			name: "short bear only", shortBearOnly: true,
			want: map[string]bool{
				"bull_lower": true, "bull_upper": false,
				"bear_lower": true, "bear_upper": true,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := entity.MonitorPolicy{LongBullOnly: tc.longBullOnly, ShortBearOnly: tc.shortBearOnly}
			for key, signal := range signals {
				assert.Equal(t, tc.want[key], ShouldPlaceOrder(p, signal), key)
			}
		})
	}
}

func TestGenerateTradingSignalLong(t *testing.T) {
	signal := entity.Signal{
		Symbol:           "ETH_USDT",
		Timestamp:        3600,
		ClosePrice:       100,
		LowPrice:         95,
		HighPrice:        101,
		MainProfit:       5,
		ShadowType:       ShadowTypeLower,
		CandleType:       CandleTypeBull,
		ShadowRatio:      3.5,
		VolumeMultiplier: 2.4,
	}
	p := entity.MonitorPolicy{
		OrderSize:       3,
		RiskRewardRatio: 2,
		TradeDirection:  "both",
	}

	ts := GenerateTradingSignal(signal, p, "0.01")
	require.NotNil(t, ts)
	assert.Equal(t, DirectionLong, ts.Direction)
	assert.InDelta(t, 100.0, ts.EntryPrice, 1e-9)
	assert.InDelta(t, 95.0, ts.StopLoss, 1e-9)
	assert.InDelta(t, 110.0, ts.TakeProfit, 1e-9)
	assert.Equal(t, int64(3), ts.OrderSize)
	assert.Equal(t, ConfidenceHigh, ts.Confidence)
}

func TestGenerateTradingSignalShort(t *testing.T) {
	signal := entity.Signal{
		Symbol:           "ETH_USDT",
		Timestamp:        3600,
		ClosePrice:       100,
		LowPrice:         99,
		HighPrice:        105,
		MainProfit:       5,
		ShadowType:       ShadowTypeUpper,
		CandleType:       CandleTypeBear,
		ShadowRatio:      2.1,
		VolumeMultiplier: 1.6,
	}
	p := entity.MonitorPolicy{
		OrderSize:       1,
		RiskRewardRatio: 1.5,
		TradeDirection:  "both",
	}

	ts := GenerateTradingSignal(signal, p, "0.01")
	require.NotNil(t, ts)
	assert.Equal(t, DirectionShort, ts.Direction)
	assert.InDelta(t, 105.0, ts.StopLoss, 1e-9)
	assert.InDelta(t, 92.5, ts.TakeProfit, 1e-9)
	assert.Equal(t, ConfidenceMedium, ts.Confidence)
}

func TestGenerateTradingSignalDirectionGate(t *testing.T) {
	upper := entity.Signal{ShadowType: ShadowTypeUpper, ClosePrice: 100, HighPrice: 105}
	lower := entity.Signal{ShadowType: ShadowTypeLower, ClosePrice: 100, LowPrice: 95}

	longOnly := entity.MonitorPolicy{TradeDirection: DirectionLong, RiskRewardRatio: 1}
	shortOnly := entity.MonitorPolicy{TradeDirection: DirectionShort, RiskRewardRatio: 1}

	// 上影线推导做空, 只做多的配置拒绝
	assert.Nil(t, GenerateTradingSignal(upper, longOnly, "0.01"))
	assert.NotNil(t, GenerateTradingSignal(lower, longOnly, "0.01"))
	// 下影线推导做多, 只做空的配置拒绝
	assert.Nil(t, GenerateTradingSignal(lower, shortOnly, "0.01"))
	assert.NotNil(t, GenerateTradingSignal(upper, shortOnly, "0.01"))
}

func TestGenerateTradingSignalLowConfidence(t *testing.T) {
	signal := entity.Signal{
		ShadowType:       ShadowTypeLower,
		ClosePrice:       100,
		LowPrice:         98,
		MainProfit:       2,
		ShadowRatio:      1.5,
		VolumeMultiplier: 1.2,
	}
	p := entity.MonitorPolicy{RiskRewardRatio: 1, TradeDirection: "both"}

	ts := GenerateTradingSignal(signal, p, "0.01")
	require.NotNil(t, ts)
	assert.Equal(t, ConfidenceLow, ts.Confidence)
}

func TestGenerateTradingSignalUnknownShadowType(t *testing.T) {
	signal := entity.Signal{ShadowType: "sideways"}
	assert.Nil(t, GenerateTradingSignal(signal, entity.MonitorPolicy{}, "0.01"))
}
