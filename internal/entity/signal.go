package entity

// Signal 一根已收盘K线上检测到的长影线信号
type Signal struct {
	Id               int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol           string  `gorm:"uniqueIndex:idx_signal_key" json:"symbol"`
	Timestamp        int64   `gorm:"uniqueIndex:idx_signal_key" json:"timestamp"` // K线起始时间, 秒
	OpenPrice        float64 `json:"open_price"`
	HighPrice        float64 `json:"high_price"`
	LowPrice         float64 `json:"low_price"`
	ClosePrice       float64 `json:"close_price"`
	Volume           float64 `json:"volume"`
	IntervalType     string  `gorm:"uniqueIndex:idx_signal_key" json:"interval_type"`
	CandleType       string  `json:"candle_type"` // bull / bear
	ShadowType       string  `json:"shadow_type"` // upper / lower
	BodyLength       float64 `json:"body_length"`
	MainShadowLength float64 `json:"main_shadow_length"`
	MainProfit       float64 `gorm:"-" json:"main_profit"` // 影线方向可兑现的利润, 不落库
	ShadowRatio      float64 `json:"shadow_ratio"`
	VolumeMultiplier float64 `json:"volume_multiplier"`
	AvgVolume        float64 `json:"avg_volume"`
	CreatedAt        int64   `json:"created_at"`
}

// TradingSignal 由 Signal 推导出的下单参数, 只在下单链路中存在, 不落库
type TradingSignal struct {
	Symbol     string  `json:"symbol"`
	Timestamp  int64   `json:"timestamp"`
	Direction  string  `json:"direction"` // long / short
	OrderSize  int64   `json:"order_size"`
	EntryPrice float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	Confidence string  `json:"confidence"` // high / medium / low
	Reason     string  `json:"reason"`
}
