package entity

// Order 已下(或尝试下)的订单记录, 只增不改
type Order struct {
	Id              int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol          string  `gorm:"index" json:"symbol"`
	Side            string  `json:"side"` // buy / sell
	OrderSize       int64   `json:"order_size"`
	EntryPrice      float64 `json:"entry_price"`
	TakeProfitPrice float64 `json:"take_profit_price"`
	StopLossPrice   float64 `json:"stop_loss_price"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	SignalId        int64   `gorm:"index" json:"signal_id"`
	Timestamp       int64   `gorm:"index" json:"timestamp"`
	CreatedAt       int64   `json:"created_at"`
}
