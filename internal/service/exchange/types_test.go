package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalMinutes(t *testing.T) {
	assert.Equal(t, 1.0, Interval1m.Minutes())
	assert.Equal(t, 240.0, Interval4h.Minutes())
	assert.Equal(t, 1440.0, Interval1d.Minutes())
	// 未知周期返回0, 由调用方拒绝
	assert.Equal(t, 0.0, Interval("2m").Minutes())
}

func TestIntervalSeconds(t *testing.T) {
	assert.Equal(t, int64(60), Interval1m.Seconds())
	assert.Equal(t, int64(900), Interval15m.Seconds())
	assert.Equal(t, int64(0), Interval("weird").Seconds())
}

func TestOrderResultOk(t *testing.T) {
	assert.True(t, OrderResult{Code: 200}.Ok())
	assert.False(t, OrderResult{Code: 400, Message: "rejected"}.Ok())
}
