package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wickmon/wickmon/internal/service/exchange"
)

var _ exchange.AccountService = (*Service)(nil)

type accountPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Total string `json:"total"`
	} `json:"data"`
}

// CheckSession 通过web接口拉取账户信息来验证cookie是否仍然有效
// 403 会原样体现在错误文本里, 上层据此区分 "会话过期" 和 "ip被拦"
func (s *Service) CheckSession(ctx context.Context) (exchange.SessionStatus, error) {
	cookie := s.cookieString()
	if cookie == "" {
		return exchange.SessionStatus{}, ErrNoCookie
	}

	reqURL := fmt.Sprintf("%s/apiw/v2/futures/%s/accounts", s.webURL, s.settle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return exchange.SessionStatus{}, err
	}
	s.setWebHeaders(req, cookie)

	resp, err := s.client.Do(req)
	if err != nil {
		return exchange.SessionStatus{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return exchange.SessionStatus{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return exchange.SessionStatus{}, fmt.Errorf("gate web api request failed: %s - %s", resp.Status, string(body))
	}

	var payload accountPayload
	if err = json.Unmarshal(body, &payload); err != nil {
		return exchange.SessionStatus{}, fmt.Errorf("invalid account response: %w", err)
	}
	if payload.Code != 200 {
		return exchange.SessionStatus{Info: payload.Message, Valid: false}, nil
	}
	return exchange.SessionStatus{Info: "total: " + payload.Data.Total, Valid: true}, nil
}

func (s *Service) setWebHeaders(req *http.Request, cookie string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Origin", s.webURL)
	req.Header.Set("Referer", s.webURL+"/")
	req.Header.Set("Cookie", cookie)
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
}
