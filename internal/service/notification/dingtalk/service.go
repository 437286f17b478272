package dingtalk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/service/notification"
)

var ErrNoWebhook = errors.New("dingtalk: webhook url not configured")

var _ notification.Service = (*Service)(nil)

type message struct {
	MsgType  string    `json:"msgtype"`
	Text     *text     `json:"text,omitempty"`
	Markdown *markdown `json:"markdown,omitempty"`
}

type text struct {
	Content string `json:"content"`
}

type markdown struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type sendResult struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Service 钉钉机器人, webhook地址可以在运行中被热替换
type Service struct {
	client *http.Client

	mu         sync.RWMutex
	webhookURL string
}

func NewService() *Service {
	return &Service{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Service) SetWebhook(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.webhookURL = url
}

func (s *Service) HasWebhook() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.webhookURL != ""
}

func (s *Service) webhook() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.webhookURL
}

func (s *Service) SendText(ctx context.Context, content string) error {
	return s.send(ctx, message{
		MsgType: "text",
		Text:    &text{Content: content},
	})
}

func (s *Service) SendMarkdown(ctx context.Context, title, body string) error {
	return s.send(ctx, message{
		MsgType:  "markdown",
		Markdown: &markdown{Title: title, Text: body},
	})
}

func (s *Service) SendSignalAlert(ctx context.Context, signal entity.Signal) error {
	candleType := "bull"
	if signal.CandleType != "bull" {
		candleType = "bear"
	}
	shadowType := "upper shadow"
	if signal.ShadowType == "lower" {
		shadowType = "lower shadow"
	}

	shadowMultiple := 0.0
	if signal.BodyLength > 0 {
		shadowMultiple = signal.MainShadowLength / signal.BodyLength
	}
	volumeMultiple := 1.0
	if signal.AvgVolume > 0 {
		volumeMultiple = signal.Volume / signal.AvgVolume
	}

	title := fmt.Sprintf("🚨 Kline signal - %s", signal.Symbol)
	body := fmt.Sprintf(`# %s
---
- **symbol**: %s
- **time**: %s
- **interval**: %s
- **price**: %.4f
---
## 📊 signal
- **candle**: %s %s
- **shadow/body**: %.2fx
- **volume multiple**: %.2fx
---
## 📈 ohlcv
- **open**: %.4f
- **high**: %.4f
- **low**: %.4f
- **close**: %.4f
- **volume**: %d
---
> ⚠️ automated monitor signal, not investment advice`,
		title, signal.Symbol,
		time.Unix(signal.Timestamp, 0).UTC().Format(time.DateTime),
		signal.IntervalType, signal.ClosePrice,
		candleType, shadowType, shadowMultiple, volumeMultiple,
		signal.OpenPrice, signal.HighPrice, signal.LowPrice, signal.ClosePrice,
		int64(signal.Volume))

	return s.SendMarkdown(ctx, title, body)
}

func (s *Service) SendTradingSignal(ctx context.Context, signal entity.TradingSignal) error {
	emoji := "📉"
	direction := "short"
	if signal.Direction == "long" {
		emoji = "📈"
		direction = "long"
	}

	riskReward := 0.0
	if diff := math.Abs(signal.EntryPrice - signal.StopLoss); diff != 0 {
		riskReward = math.Abs(signal.TakeProfit-signal.EntryPrice) / diff
	}

	title := fmt.Sprintf("💡 Trade signal - %s %s", signal.Symbol, emoji)
	body := fmt.Sprintf(`# %s
---
- **symbol**: %s
- **time**: %s
- **direction**: %s %s
- **entry**: %.4f
- **stop loss**: %.4f
- **take profit**: %.4f
- **risk:reward**: 1:%.1f
- **confidence**: %s
---
## 💭 reason
%s
---
> 🎯 trade at your own risk`,
		title, signal.Symbol,
		time.Unix(signal.Timestamp, 0).UTC().Format(time.DateTime),
		direction, emoji,
		signal.EntryPrice, signal.StopLoss, signal.TakeProfit,
		riskReward, signal.Confidence, signal.Reason)

	return s.SendMarkdown(ctx, title, body)
}

func (s *Service) send(ctx context.Context, msg message) error {
	webhookURL := s.webhook()
	if webhookURL == "" {
		return ErrNoWebhook
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("dingtalk request failed: %s - %s", resp.Status, string(respBody))
	}

	var result sendResult
	if err = json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("invalid dingtalk response: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("dingtalk send failed: %s", result.ErrMsg)
	}
	return nil
}

