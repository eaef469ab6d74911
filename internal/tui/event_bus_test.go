package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderHandler struct {
	name     string
	priority int
	log      *[]string
}

func (h *orderHandler) CanHandle(event Event) bool { return true }

func (h *orderHandler) Handle(event Event) error {
	*h.log = append(*h.log, h.name)
	return nil
}

func (h *orderHandler) Priority() int { return h.priority }

func TestEventBusPriorityOrder(t *testing.T) {
	bus := NewMemoryEventBus()
	var log []string
	bus.Subscribe(EventTypeMessageAdded, &orderHandler{name: "late", priority: 10, log: &log})
	bus.Subscribe(EventTypeMessageAdded, &orderHandler{name: "early", priority: 1, log: &log})

	bus.Publish(NewMessageAddedEvent(Message{ID: "m1", Text: "hi"}))
	assert.Equal(t, []string{"early", "late"}, log)
}

func TestEventBusUnsubscribeAndClear(t *testing.T) {
	bus := NewMemoryEventBus()
	var log []string
	a := &orderHandler{name: "a", log: &log}
	b := &orderHandler{name: "b", log: &log}
	bus.Subscribe(EventTypeChatFailed, a)
	bus.Subscribe(EventTypeChatFailed, b)

	bus.Unsubscribe(EventTypeChatFailed, a)
	bus.Publish(NewChatFailedEvent(errors.New("boom")))
	assert.Equal(t, []string{"b"}, log)

	bus.Clear()
	bus.Publish(NewChatFailedEvent(errors.New("boom")))
	assert.Equal(t, []string{"b"}, log)
}

func TestEventData(t *testing.T) {
	ev := NewRevealCompletedEvent("m1", 5)
	assert.Equal(t, EventTypeRevealCompleted, ev.Type())
	assert.Equal(t, "m1", ev.Data()["message_id"])
	assert.Equal(t, 5, ev.Data()["length"])
	assert.False(t, ev.Timestamp().IsZero())

	added := NewMessageAddedEvent(Message{ID: "m2", Text: "héllo", IsUser: true})
	assert.Equal(t, 5, added.Data()["length"])
	assert.Equal(t, true, added.Data()["is_user"])

	stopped := NewDictationEvent(EventTypeDictationStopped, 3, nil)
	_, hasErr := stopped.Data()["error"]
	assert.False(t, hasErr)
}

func TestSubscribeLoggingCoversAllTypes(t *testing.T) {
	bus := NewMemoryEventBus()
	SubscribeLogging(bus)
	for _, eventType := range AllEventTypes {
		assert.Len(t, bus.handlers[eventType], 1, eventType)
	}
	// 日志未初始化时是空操作
	bus.Publish(NewChatFailedEvent(errors.New("boom")))
	bus.Publish(NewBaseEvent(EventTypeTeardown, nil))
}
