package entity

import (
	"encoding/json"
)

// Credential 交易所凭证, 同一时间只有一条处于激活状态
type Credential struct {
	Id         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `json:"name"`
	ApiKey     string `json:"api_key"`
	SecretKey  string `json:"secret_key"`
	WebhookURL string `json:"webhook_url"` // 报警机器人 webhook
	Cookie     string `json:"cookie"`      // 浏览器cookie, 用于调用web接口
	Contracts  string `json:"contracts"`   // 合约元数据缓存, JSON数组
	IsActive   bool   `gorm:"index" json:"is_active"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `gorm:"index" json:"updated_at"` // 配置热更新的逻辑时钟
}

// Contract 合约元数据, 缓存在 Credential.Contracts 里
type Contract struct {
	Name             string `json:"name"`              // BTC_USDT
	OrderPriceRound  string `json:"order_price_round"` // 价格精度, 如 "0.01"
	QuantoMultiplier string `json:"quanto_multiplier"`
}

func (c *Credential) ParseContracts() ([]Contract, error) {
	if c.Contracts == "" {
		return nil, nil
	}
	var contracts []Contract
	if err := json.Unmarshal([]byte(c.Contracts), &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}
