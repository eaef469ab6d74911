package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Zacy-Sokach/PolicyChat/internal/utils"
)

// DefaultEndpoint 聊天后端地址，固定不可配置
const DefaultEndpoint = "http://127.0.0.1:8000/chat"

// maxErrorBody 错误响应体最多读取的字节数
const maxErrorBody = 4096

// APIError 表示 API 请求错误，包含状态码和错误信息
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API请求失败 (状态码: %d): %s", e.StatusCode, e.Message)
}

// 全局共享的HTTP客户端，实现连接池化
var (
	sharedHTTPClient *http.Client
	httpClientOnce   sync.Once
)

// getSharedHTTPClient 返回共享的HTTP客户端实例
func getSharedHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		sharedHTTPClient = &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: 55 * time.Second,
			},
		}
	})
	return sharedHTTPClient
}

type Client struct {
	endpoint string
	client   utils.Doer
}

// NewClient 创建指向固定后端地址的客户端
func NewClient() *Client {
	return NewClientWithEndpoint(DefaultEndpoint, nil)
}

// NewClientWithEndpoint 指定地址和 HTTP 实现，doer 为 nil 时使用共享客户端
func NewClientWithEndpoint(endpoint string, doer utils.Doer) *Client {
	if doer == nil {
		doer = getSharedHTTPClient()
	}
	return &Client{
		endpoint: endpoint,
		client:   doer,
	}
}

// Endpoint 返回请求地址
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Chat 发送一个问题并返回完整响应，只尝试一次
func (c *Client) Chat(ctx context.Context, question string) (*ChatResponse, error) {
	body, err := json.Marshal(ChatRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(bodyBytes),
		}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return &chatResp, nil
}

// Ask 返回回答文本，满足 tui.Asker
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	resp, err := c.Chat(ctx, question)
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}
