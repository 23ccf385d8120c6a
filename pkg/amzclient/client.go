// pkg/amzclient/client.go
package amzclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// 各区域API入口
var endpoints = map[string]string{
	"NA": "https://advertising-api.amazon.com",
	"EU": "https://advertising-api-eu.amazon.com",
	"FE": "https://advertising-api-fe.amazon.com",
}

const (
	tokenURL  = "https://api.amazon.com/auth/o2/token"
	userAgent = "BidRadar-PPC-Optimizer/1.0"
)

// Client Amazon广告API客户端
type Client struct {
	BaseURL     string
	ClientID    string
	tokenSource oauth2.TokenSource
	Client      *http.Client
}

// Credentials LWA凭证
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// NewClient 创建新的广告API客户端
func NewClient(scope string, creds Credentials, timeout time.Duration) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RefreshToken == "" {
		return nil, fmt.Errorf("凭证不完整: 需要 client_id/client_secret/refresh_token")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// refresh token 换取 access token，令牌自动续期
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
	ts := conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: creds.RefreshToken})

	return &Client{
		BaseURL:     ResolveEndpoint(scope),
		ClientID:    creds.ClientID,
		tokenSource: oauth2.ReuseTokenSource(nil, ts),
		Client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// ResolveEndpoint 根据区域解析API入口
func ResolveEndpoint(scope string) string {
	if base, ok := endpoints[strings.ToUpper(scope)]; ok {
		return base
	}
	return endpoints["NA"]
}

// headers 生成API请求头
func (c *Client) headers(profileID string) (http.Header, error) {
	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("获取访问令牌失败: %w", err)
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token.AccessToken)
	h.Set("Content-Type", "application/json")
	h.Set("Amazon-Advertising-API-ClientId", c.ClientID)
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "application/json")
	if profileID != "" {
		h.Set("Amazon-Advertising-API-Scope", profileID)
	}
	return h, nil
}

// do 执行API请求并解码到out
func (c *Client) do(method, path, profileID string, query url.Values, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求失败: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	httpReq, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	headers, err := c.headers(profileID)
	if err != nil {
		return err
	}
	httpReq.Header = headers

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("执行HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API返回非2xx状态码: %d, 响应: %s", resp.StatusCode, truncate(respBody, 200))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("解析响应失败: %w", err)
		}
	}
	return nil
}

// truncate 截断过长的响应体，避免日志刷屏
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
