package tui

import (
	"github.com/Zacy-Sokach/PolicyChat/internal/logger"
)

// NewMessageAddedEvent 消息添加事件
func NewMessageAddedEvent(msg Message) *BaseEvent {
	return NewBaseEvent(EventTypeMessageAdded, map[string]interface{}{
		"message_id": msg.ID,
		"is_user":    msg.IsUser,
		"length":     len([]rune(msg.Text)),
	})
}

// NewChatFailedEvent 聊天请求失败事件
func NewChatFailedEvent(err error) *BaseEvent {
	return NewBaseEvent(EventTypeChatFailed, map[string]interface{}{
		"error": err,
	})
}

// NewRevealCompletedEvent 逐字显示完成事件
func NewRevealCompletedEvent(messageID string, length int) *BaseEvent {
	return NewBaseEvent(EventTypeRevealCompleted, map[string]interface{}{
		"message_id": messageID,
		"length":     length,
	})
}

// NewDictationEvent 听写开始/结束/失败事件，err 可以为 nil
func NewDictationEvent(eventType string, sessionID int, err error) *BaseEvent {
	data := map[string]interface{}{
		"session": sessionID,
	}
	if err != nil {
		data["error"] = err
	}
	return NewBaseEvent(eventType, data)
}

// LogEventHandler 把事件写入日志
type LogEventHandler struct{}

func (h *LogEventHandler) CanHandle(event Event) bool {
	return true
}

func (h *LogEventHandler) Handle(event Event) error {
	switch event.Type() {
	case EventTypeChatFailed, EventTypeDictationFailed:
		logger.WarnCF("tui", event.Type(), event.Data())
	case EventTypeRevealCompleted:
		logger.DebugCF("tui", event.Type(), event.Data())
	default:
		logger.InfoCF("tui", event.Type(), event.Data())
	}
	return nil
}

// Priority 日志最后执行
func (h *LogEventHandler) Priority() int {
	return 100
}

// SubscribeLogging 让日志处理器订阅全部事件
func SubscribeLogging(bus EventBus) {
	handler := &LogEventHandler{}
	for _, eventType := range AllEventTypes {
		bus.Subscribe(eventType, handler)
	}
}
