package entity

// MonitorPolicy 单个交易对的监控配置
type MonitorPolicy struct {
	Id                 int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol             string  `gorm:"index" json:"symbol"`
	IntervalType       string  `json:"interval_type"` // 1m、5m、15m、30m、1h、4h、1d
	Frequency          int64   `json:"frequency"`     // 轮询间隔, 秒
	LookbackHours      float64 `json:"lookback_hours"`
	ShadowRatio        float64 `json:"shadow_ratio"`      // 主影线/副影线比例阈值
	ShadowBodyRatio    float64 `json:"shadow_body_ratio"` // 影线/实体比例阈值
	VolumeMultiplier   float64 `json:"volume_multiplier"` // 成交量倍数阈值
	OrderSize          int64   `json:"order_size"`        // 张
	RiskRewardRatio    float64 `json:"risk_reward_ratio"`
	OrderType          string  `json:"order_type"` // limit / market
	ExpectedProfitRate float64 `json:"expected_profit_rate"`
	EnableAutoTrading  bool    `json:"enable_auto_trading"`
	EnableAlert        bool    `json:"enable_alert"`
	LongBullOnly       bool    `json:"long_bull_only"`  // 阳线才做多
	ShortBearOnly      bool    `json:"short_bear_only"` // 阴线才做空
	TradeDirection     string  `json:"trade_direction"` // both / long / short
	IsActive           bool    `gorm:"index" json:"is_active"`
	CreatedAt          int64   `json:"created_at"`
	UpdatedAt          int64   `json:"updated_at"`
}

// Key 轮询任务注册表的键
func (p *MonitorPolicy) Key() string {
	return p.Symbol + "_" + p.IntervalType
}
