package gate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wickmon/wickmon/internal/entity"
)

var (
	ErrNoCredentials = errors.New("gate: api credentials not configured")
	ErrNoCookie      = errors.New("gate: cookie not set")
)

// Service Gate合约接口客户端
// 凭证和合约缓存可以在运行中被热替换, 读写都走内部的读写锁,
// 锁只保护字段拷贝, 绝不跨网络调用持有
type Service struct {
	client  *http.Client
	baseURL string
	webURL  string
	settle  string

	mu        sync.RWMutex
	apiKey    string
	secretKey string
	cookie    string
	contracts []entity.Contract
}

type Option func(s *Service)

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

func NewService(baseURL, webURL, settle string, opts ...Option) *Service {
	svc := &Service{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		webURL:  webURL,
		settle:  settle,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) UpdateCredentials(apiKey, secretKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = apiKey
	s.secretKey = secretKey
}

func (s *Service) SetCookie(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = cookie
}

// SetContracts 解析并替换合约元数据缓存
func (s *Service) SetContracts(contracts string) error {
	var parsed []entity.Contract
	if err := json.Unmarshal([]byte(contracts), &parsed); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts = parsed
	return nil
}

func (s *Service) HasCredentials() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey != "" && s.secretKey != ""
}

func (s *Service) ContractBySymbol(symbol string) (entity.Contract, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contracts {
		if c.Name == symbol {
			return c, true
		}
	}
	return entity.Contract{}, false
}

func (s *Service) credentials() (apiKey, secretKey string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey, s.secretKey
}

func (s *Service) cookieString() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cookie
}

// csrfToken 从浏览器cookie里提取CSRF token
func (s *Service) csrfToken() (string, error) {
	cookie := s.cookieString()
	if cookie == "" {
		return "", ErrNoCookie
	}
	for _, pair := range strings.Split(cookie, ";") {
		trimmed := strings.TrimSpace(pair)
		if token, ok := strings.CutPrefix(trimmed, "csrftoken="); ok {
			return token, nil
		}
	}
	return "", errors.New("gate: csrftoken not found in cookie")
}
