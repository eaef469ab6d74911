package tui

import (
	"github.com/Zacy-Sokach/PolicyChat/internal/dictation"
	"github.com/Zacy-Sokach/PolicyChat/internal/reveal"
)

// Message types for tea.Model

// ChatReplyMsg 聊天请求结束，Err 不为空表示失败
type ChatReplyMsg struct {
	RequestID int
	Answer    string
	Err       error
}

type RevealTickMsg struct {
	Tick reveal.Tick
}

// DictationStartedMsg 听写会话启动的结果
type DictationStartedMsg struct {
	SessionID int
	Session   dictation.Session
	Err       error
}

type DictationEventMsg struct {
	SessionID int
	Event     dictation.Event
}

// DictationClosedMsg 会话的事件通道已关闭
type DictationClosedMsg struct {
	SessionID int
}
