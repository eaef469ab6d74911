package dictation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrUnavailable 当前环境没有可用的语音识别能力
var ErrUnavailable = errors.New("语音识别不可用")

// Source 语音识别能力
type Source interface {
	Start(ctx context.Context, lang string) (Session, error)
}

// Session 一次识别会话。Events 在会话结束后关闭，最后一个事件总是 EventEnd。
type Session interface {
	Events() <-chan Event
	Stop() error
}

const eventBuffer = 16

// session Source 实现共用的会话骨架：读取协程通过 emit 发送事件，Stop 只执行一次
type session struct {
	events  chan Event
	done    chan struct{}
	once    sync.Once
	stopFn  func() error
	stopErr error
	ended   bool
}

func newSession(stopFn func() error) *session {
	return &session{
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
		stopFn: stopFn,
	}
}

func (s *session) Events() <-chan Event {
	return s.events
}

func (s *session) Stop() error {
	s.once.Do(func() {
		close(s.done)
		if s.stopFn != nil {
			s.stopErr = s.stopFn()
		}
	})
	return s.stopErr
}

func (s *session) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// emit 只在读取协程中调用；会话已停止时返回 false
func (s *session) emit(ev Event) bool {
	if s.stopped() {
		return false
	}
	select {
	case s.events <- ev:
		if ev.Kind == EventEnd {
			s.ended = true
		}
		return true
	case <-s.done:
		return false
	}
}

// fail 发出错误事件
func (s *session) fail(err error) bool {
	return s.emit(Event{Kind: EventError, Err: err})
}

// finish 补发 EventEnd 并关闭事件通道
func (s *session) finish() {
	if !s.ended {
		s.emit(Event{Kind: EventEnd})
	}
	close(s.events)
}

// frame 识别器输出的一行 JSON（命令行和 WebSocket 共用）
type frame struct {
	Type        string    `json:"type,omitempty"`
	Text        string    `json:"text,omitempty"`
	Final       bool      `json:"final,omitempty"`
	ResultIndex int       `json:"result_index,omitempty"`
	Results     []Segment `json:"results,omitempty"`
	Error       string    `json:"error,omitempty"`
}

func decodeFrame(data []byte) (Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Event{}, fmt.Errorf("解析识别结果失败: %w", err)
	}

	switch {
	case f.Error != "" || f.Type == "error":
		msg := f.Error
		if msg == "" {
			msg = "recognizer error"
		}
		return Event{Kind: EventError, Err: errors.New(msg)}, nil
	case f.Type == "end":
		return Event{Kind: EventEnd}, nil
	case len(f.Results) > 0:
		return Event{Kind: EventResult, ResultIndex: f.ResultIndex, Results: f.Results}, nil
	default:
		return Event{Kind: EventResult, Results: []Segment{{Text: f.Text, Final: f.Final}}}, nil
	}
}

// terminal 错误和结束事件之后不再有识别结果
func terminal(ev Event) bool {
	return ev.Kind == EventError || ev.Kind == EventEnd
}
