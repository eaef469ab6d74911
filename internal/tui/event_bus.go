package tui

import (
	"sort"
	"sync"
	"time"
)

// Event 事件接口
type Event interface {
	Type() string
	Data() map[string]interface{}
	Timestamp() time.Time
}

// EventHandler 事件处理器接口
type EventHandler interface {
	// CanHandle 检查是否可以处理该事件
	CanHandle(event Event) bool

	Handle(event Event) error

	// Priority 处理优先级，数值越小优先级越高
	Priority() int
}

// EventBus 事件总线接口
type EventBus interface {
	Subscribe(eventType string, handler EventHandler)
	Unsubscribe(eventType string, handler EventHandler)
	Publish(event Event)
	Clear()
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	eventType string
	data      map[string]interface{}
	timestamp time.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string, data map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now(),
	}
}

func (e *BaseEvent) Type() string {
	return e.eventType
}

func (e *BaseEvent) Data() map[string]interface{} {
	return e.data
}

func (e *BaseEvent) Timestamp() time.Time {
	return e.timestamp
}

// MemoryEventBus 内存事件总线实现，同步分发
type MemoryEventBus struct {
	handlers map[string][]EventHandler
	mutex    sync.RWMutex
}

// NewMemoryEventBus 创建内存事件总线
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// Subscribe 订阅事件，同一类型的处理器按优先级排序
func (bus *MemoryEventBus) Subscribe(eventType string, handler EventHandler) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	handlers := append(bus.handlers[eventType], handler)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority() < handlers[j].Priority()
	})
	bus.handlers[eventType] = handlers
}

// Unsubscribe 取消订阅事件
func (bus *MemoryEventBus) Unsubscribe(eventType string, handler EventHandler) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	handlers := bus.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			bus.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
}

// Publish 发布事件
func (bus *MemoryEventBus) Publish(event Event) {
	bus.mutex.RLock()
	handlers := bus.handlers[event.Type()]
	bus.mutex.RUnlock()

	for _, handler := range handlers {
		if handler.CanHandle(event) {
			handler.Handle(event) // 忽略错误，保持简单
		}
	}
}

// Clear 清空所有订阅
func (bus *MemoryEventBus) Clear() {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	bus.handlers = make(map[string][]EventHandler)
}

// 事件类型常量
const (
	EventTypeMessageAdded     = "message.added"
	EventTypeChatFailed       = "chat.failed"
	EventTypeRevealCompleted  = "reveal.completed"
	EventTypeDictationStarted = "dictation.started"
	EventTypeDictationStopped = "dictation.stopped"
	EventTypeDictationFailed  = "dictation.failed"
	EventTypeTeardown         = "view.teardown"
)

// AllEventTypes 日志处理器订阅的全部事件类型
var AllEventTypes = []string{
	EventTypeMessageAdded,
	EventTypeChatFailed,
	EventTypeRevealCompleted,
	EventTypeDictationStarted,
	EventTypeDictationStopped,
	EventTypeDictationFailed,
	EventTypeTeardown,
}
