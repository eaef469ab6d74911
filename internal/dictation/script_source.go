package dictation

import (
	"context"
	"time"
)

// ScriptSource 按顺序回放固定的事件，用于演示和测试
type ScriptSource struct {
	Events []Event
	// Delay 每个事件之前的等待时间
	Delay time.Duration
	// Unavailable 模拟不支持语音识别的环境
	Unavailable bool

	starts int
}

func (s *ScriptSource) Start(ctx context.Context, lang string) (Session, error) {
	if s.Unavailable {
		return nil, ErrUnavailable
	}
	s.starts++

	sess := newSession(nil)
	events := append([]Event(nil), s.Events...)
	delay := s.Delay

	go func() {
		defer sess.finish()
		for _, ev := range events {
			if delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-sess.done:
					timer.Stop()
					return
				case <-ctx.Done():
					timer.Stop()
					return
				}
			}
			if !sess.emit(ev) || terminal(ev) {
				return
			}
		}
	}()

	return sess, nil
}

// Starts 已启动的会话次数
func (s *ScriptSource) Starts() int {
	return s.starts
}

// Results 构造一个 Result 事件
func Results(segments ...Segment) Event {
	return Event{Kind: EventResult, Results: segments}
}

func Interim(text string) Segment {
	return Segment{Text: text}
}

func Final(text string) Segment {
	return Segment{Text: text, Final: true}
}
