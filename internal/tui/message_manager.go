package tui

import (
	"time"

	"github.com/google/uuid"
)

// Message 对话中的一条消息，追加后不再修改
type Message struct {
	ID        string
	Text      string
	IsUser    bool
	CreatedAt time.Time
}

// Conversation 管理消息列表和请求中状态。消息只追加，按创建时间排序。
type Conversation struct {
	messages []Message
	loading  bool
	newID    func() string
}

// NewConversation 创建对话，greeting 非空时作为第一条助手消息
func NewConversation(greeting string) *Conversation {
	c := &Conversation{
		messages: []Message{},
		newID:    newMessageID,
	}
	if greeting != "" {
		c.Append(greeting, false)
	}
	return c
}

// newMessageID UUIDv7 按时间有序，可以作为排序键
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Append 追加消息并返回它
func (c *Conversation) Append(text string, isUser bool) Message {
	msg := Message{
		ID:        c.newID(),
		Text:      text,
		IsUser:    isUser,
		CreatedAt: time.Now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

// Messages 返回消息列表的副本
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last 最后一条消息
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Loading 是否有请求在进行中，同一时间最多一个
func (c *Conversation) Loading() bool {
	return c.loading
}

func (c *Conversation) SetLoading(loading bool) {
	c.loading = loading
}
