package dictation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Zacy-Sokach/PolicyChat/internal/logger"
	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout     = 5 * time.Second
	wsHandshakeTimeout = 10 * time.Second
)

// controlFrame 发往识别服务的控制消息
type controlFrame struct {
	Type string `json:"type"`
	Lang string `json:"lang,omitempty"`
}

// WebSocketSource 连接流式语音识别服务。
// 连接后发送 {"type":"start","lang":...}，服务端每条文本消息是一个 JSON 识别结果。
type WebSocketSource struct {
	URL    string
	Header http.Header
	Dialer *websocket.Dialer
}

func NewWebSocketSource(url string) *WebSocketSource {
	return &WebSocketSource{
		URL: url,
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: wsHandshakeTimeout,
		},
	}
}

func (s *WebSocketSource) Start(ctx context.Context, lang string) (Session, error) {
	if s.URL == "" {
		return nil, ErrUnavailable
	}

	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, _, err := dialer.DialContext(ctx, s.URL, s.Header)
	if err != nil {
		return nil, fmt.Errorf("%w: 连接语音识别服务失败: %v", ErrUnavailable, err)
	}

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(controlFrame{Type: "start", Lang: lang}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("发送开始指令失败: %w", err)
	}

	logger.InfoCF("dictation", "recognizer websocket connected", map[string]interface{}{
		"url":  s.URL,
		"lang": lang,
	})

	sess := newSession(func() error {
		deadline := time.Now().Add(wsWriteTimeout)
		conn.SetWriteDeadline(deadline)
		conn.WriteJSON(controlFrame{Type: "stop"})
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		return conn.Close()
	})

	go func() {
		defer sess.finish()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if !sess.stopped() && !isNormalClose(err) {
					sess.fail(fmt.Errorf("读取识别结果失败: %w", err))
				}
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			ev, err := decodeFrame(data)
			if err != nil {
				logger.WarnCF("dictation", "skipping malformed frame", map[string]interface{}{
					"transport": "websocket",
					"error":     err,
				})
				continue
			}
			if !sess.emit(ev) || terminal(ev) {
				return
			}
		}
	}()

	return sess, nil
}

func isNormalClose(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway
	}
	return false
}
