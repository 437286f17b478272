package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wickmon/wickmon/internal/service/exchange"
)

var _ exchange.MarketService = (*Service)(nil)

// Gate K线原始格式: [{"t":1234,"v":1,"o":"..","c":"..","h":"..","l":".."}]
type candlePayload struct {
	T int64   `json:"t"`
	V float64 `json:"v"`
	O string  `json:"o"`
	C string  `json:"c"`
	H string  `json:"h"`
	L string  `json:"l"`
}

func (p candlePayload) toCandle() (exchange.Candle, error) {
	open, err := strconv.ParseFloat(p.O, 64)
	if err != nil {
		return exchange.Candle{}, fmt.Errorf("invalid open price %q: %w", p.O, err)
	}
	high, err := strconv.ParseFloat(p.H, 64)
	if err != nil {
		return exchange.Candle{}, fmt.Errorf("invalid high price %q: %w", p.H, err)
	}
	low, err := strconv.ParseFloat(p.L, 64)
	if err != nil {
		return exchange.Candle{}, fmt.Errorf("invalid low price %q: %w", p.L, err)
	}
	closePrice, err := strconv.ParseFloat(p.C, 64)
	if err != nil {
		return exchange.Candle{}, fmt.Errorf("invalid close price %q: %w", p.C, err)
	}
	return exchange.Candle{
		Timestamp: p.T,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    p.V,
	}, nil
}

func (s *Service) GetCandles(ctx context.Context, symbol string, interval exchange.Interval, limit int) ([]exchange.Candle, error) {
	query := url.Values{}
	query.Set("contract", symbol)
	query.Set("interval", interval.ToString())
	query.Set("limit", strconv.Itoa(limit))
	queryString := query.Encode()

	urlPath := fmt.Sprintf("/futures/%s/candlesticks", s.settle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+urlPath+"?"+queryString, nil)
	if err != nil {
		return nil, err
	}

	body, err := s.signedRequest(req, urlPath, queryString, "")
	if err != nil {
		return nil, err
	}

	var payloads []candlePayload
	if err = json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("invalid candlestick response: %w", err)
	}

	candles := make([]exchange.Candle, 0, len(payloads))
	for _, p := range payloads {
		candle, err := p.toCandle()
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}
