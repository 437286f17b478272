package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/wickmon/wickmon/internal/service/exchange"
)

var _ exchange.TradingService = (*Service)(nil)

type stopOrderSpec struct {
	TriggerPriceType int    `json:"trigger_price_type"` // 0: 标记价格触发
	TriggerPrice     string `json:"trigger_price"`
	OrderPrice       string `json:"order_price"` // "0" 表示市价执行
}

type bracketOrderPayload struct {
	Order struct {
		Contract string `json:"contract"`
		Size     int64  `json:"size"`
		Price    string `json:"price"`
		Tif      string `json:"tif"`
		Text     string `json:"text"`
	} `json:"order"`
	StopProfit *stopOrderSpec `json:"stop_profit,omitempty"`
	StopLoss   *stopOrderSpec `json:"stop_loss,omitempty"`
}

func buildBracketOrderPayload(order exchange.BracketOrder) bracketOrderPayload {
	var payload bracketOrderPayload
	payload.Order.Contract = order.Symbol
	payload.Order.Text = "web"

	size := order.Size
	if size < 0 {
		size = -size
	}
	if order.Side == "buy" {
		payload.Order.Size = size
	} else {
		payload.Order.Size = -size
	}

	if order.OrderType == "limit" {
		payload.Order.Price = formatPrice(order.Price)
		payload.Order.Tif = "gtc"
	} else {
		payload.Order.Price = "0"
		payload.Order.Tif = "ioc"
	}

	if order.TakeProfit > 0 {
		payload.StopProfit = &stopOrderSpec{
			TriggerPrice: formatPrice(order.TakeProfit),
			OrderPrice:   "0",
		}
	}
	if order.StopLoss > 0 {
		payload.StopLoss = &stopOrderSpec{
			TriggerPrice: formatPrice(order.StopLoss),
			OrderPrice:   "0",
		}
	}
	return payload
}

// PlaceBracketOrder 走web接口下带止盈止损的订单, 需要cookie里的CSRF token
func (s *Service) PlaceBracketOrder(ctx context.Context, order exchange.BracketOrder) (exchange.OrderResult, error) {
	csrfToken, err := s.csrfToken()
	if err != nil {
		return exchange.OrderResult{}, err
	}

	body, err := json.Marshal(buildBracketOrderPayload(order))
	if err != nil {
		return exchange.OrderResult{}, err
	}

	reqURL := fmt.Sprintf("%s/apiw/v2/futures/%s/price_orders/order_stop_order", s.webURL, s.settle)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return exchange.OrderResult{}, err
	}
	s.setWebHeaders(req, s.cookieString())
	req.Header.Set("csrftoken", csrfToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return exchange.OrderResult{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return exchange.OrderResult{}, err
	}

	var result exchange.OrderResult
	if err = json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return exchange.OrderResult{}, fmt.Errorf("gate web api request failed: %s - %s", resp.Status, string(respBody))
		}
		return exchange.OrderResult{}, fmt.Errorf("invalid order response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return exchange.OrderResult{}, fmt.Errorf("gate web api request failed: %s - %s", resp.Status, result.Message)
	}
	return result, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
