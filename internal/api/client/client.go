// Package client 通过HTTP接口访问交易服务，实现 sdk 中的全部能力契约。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"exchange_sdk/internal/config"
	"exchange_sdk/internal/models"
	"exchange_sdk/internal/service"
	"exchange_sdk/internal/signing"
	"exchange_sdk/sdk"
)

// Client HTTP客户端
type Client struct {
	baseURL    string
	apiKey     string
	secretKey  string
	retry      RetryConfig
	httpClient *http.Client
}

var _ service.Venue = (*Client)(nil)

// NewClient 创建客户端（仅公开接口）
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		retry:   DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithConfig 根据配置创建客户端
func NewClientWithConfig(cfg config.ClientConfig) *Client {
	c := NewClient(cfg.BaseURL)
	c.apiKey = cfg.APIKey
	c.secretKey = cfg.Secret
	if cfg.Timeout > 0 {
		c.httpClient.Timeout = time.Duration(cfg.Timeout) * time.Second
	}
	if cfg.MaxRetries > 0 {
		c.retry.MaxRetries = cfg.MaxRetries
	}
	return c
}

// WithCredentials 返回使用指定密钥的副本，secretKey 为空时不签名
func (c *Client) WithCredentials(apiKey, secretKey string) *Client {
	cp := *c
	cp.apiKey = apiKey
	cp.secretKey = secretKey
	return &cp
}

// WithRetry 返回使用指定重试配置的副本
func (c *Client) WithRetry(cfg RetryConfig) *Client {
	cp := *c
	cp.retry = cfg
	return &cp
}

// Session 返回绑定到 apiKey 的会话。只有与客户端自身密钥相同时才签名。
func (c *Client) Session(apiKey string) service.Backend {
	if apiKey == c.apiKey {
		return c
	}
	return c.WithCredentials(apiKey, "")
}

// request 一次HTTP调用
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	authed bool
}

// do 发送请求并把结果解析到 out。只读请求在网络失败时按重试配置重试。
func (c *Client) do(ctx context.Context, req request, out interface{}) sdk.AuthedError {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return sdk.InvalidParams{Detail: "序列化请求失败", Cause: err}
		}
	}

	send := func() sdk.AuthedError { return c.send(ctx, req, payload, out) }
	if req.method != http.MethodGet {
		return send()
	}
	return retryWithBackoff(ctx, send, c.retry)
}

func (c *Client) send(ctx context.Context, req request, payload []byte, out interface{}) sdk.AuthedError {
	rawQuery := req.query.Encode()
	requestURL := c.baseURL + req.path
	if rawQuery != "" {
		requestURL += "?" + rawQuery
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, requestURL, body)
	if err != nil {
		return sdk.InvalidParams{Detail: "创建请求失败", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if req.authed {
		httpReq.Header.Set(models.APIKeyHeader, c.apiKey)
		if c.secretKey != "" {
			ts := signing.GetTimestamp()
			sig := signing.Sign(signing.Payload(ts, req.method, req.path, rawQuery, payload), c.secretKey)
			httpReq.Header.Set(signing.TimestampHeader, strconv.FormatInt(ts, 10))
			httpReq.Header.Set(signing.SignatureHeader, sig)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return sdk.NetworkFailure{Detail: fmt.Sprintf("请求失败: %s %s", req.method, req.path), Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return sdk.NetworkFailure{Detail: "读取响应失败", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return handleHTTPError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return sdk.InvalidResponse{Detail: fmt.Sprintf("解析响应失败: %s", truncate(data)), Cause: err}
	}
	return nil
}

// handleHTTPError 处理HTTP错误响应。响应体中有错误类别时按类别还原，否则按状态码归类。
func handleHTTPError(statusCode int, body []byte) sdk.AuthedError {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		return sdk.NewError(sdk.Kind(errResp.Code), errResp.Msg)
	}

	detail := fmt.Sprintf("API返回错误状态码 %d: %s", statusCode, truncate(body))
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return sdk.InvalidAuth{Detail: detail}
	case statusCode == http.StatusBadRequest || statusCode == http.StatusNotFound:
		return sdk.InvalidParams{Detail: detail}
	case statusCode == http.StatusServiceUnavailable || statusCode == http.StatusGatewayTimeout:
		return sdk.NetworkFailure{Detail: detail}
	default:
		return sdk.InvalidResponse{Detail: detail}
	}
}

func truncate(body []byte) string {
	const maxLen = 256
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}

// get 公开的只读请求，认证错误对行情接口属于异常响应
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) sdk.UnauthedError {
	return sdk.AsUnauthed(c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// historyQuery 成交查询的公共参数，零值不发送
func historyQuery(symbol string, limit int, start, end time.Time, fromID string) url.Values {
	q := url.Values{models.ParamSymbol: {symbol}}
	if limit != 0 {
		q.Set(models.ParamLimit, strconv.Itoa(limit))
	}
	if !start.IsZero() {
		q.Set(models.ParamStartTime, formatTime(start))
	}
	if !end.IsZero() {
		q.Set(models.ParamEndTime, formatTime(end))
	}
	if fromID != "" {
		q.Set(models.ParamFromID, fromID)
	}
	return q
}
