package gate

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// sign Gate v4 签名: HMAC-SHA512("METHOD\nPATH\nQUERY\nSHA512(BODY)\nTS")
func sign(secretKey, method, urlPath, query, body string, timestamp int64) string {
	bodyHash := sha512.Sum512([]byte(body))
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s\n%d",
		method, urlPath, query, hex.EncodeToString(bodyHash[:]), timestamp)

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write([]byte(stringToSign))
	return hex.EncodeToString(mac.Sum(nil))
}

// signedRequest 执行一次签名请求并返回响应body, 非2xx视为错误
func (s *Service) signedRequest(req *http.Request, urlPath, query, body string) ([]byte, error) {
	apiKey, secretKey := s.credentials()
	if apiKey == "" || secretKey == "" {
		return nil, ErrNoCredentials
	}

	timestamp := time.Now().Unix()
	req.Header.Set("KEY", apiKey)
	req.Header.Set("Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("SIGN", sign(secretKey, req.Method, urlPath, query, body, timestamp))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gate api request failed: %s - %s", resp.Status, string(respBody))
	}
	return respBody, nil
}
