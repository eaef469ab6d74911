package dictation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Zacy-Sokach/PolicyChat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect 读取会话的全部事件
func collect(t *testing.T, sess Session) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-sess.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("timed out waiting for session events")
			return nil
		}
	}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Event
	}{
		{"single interim", `{"text":"hel"}`, Results(Interim("hel"))},
		{"single final", `{"text":"hello","final":true}`, Results(Final("hello"))},
		{"result list", `{"result_index":1,"results":[{"text":"a","final":true},{"text":"b"}]}`,
			Event{Kind: EventResult, ResultIndex: 1, Results: []Segment{Final("a"), Interim("b")}}},
		{"end", `{"type":"end"}`, Event{Kind: EventEnd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeFrame([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeFrameError(t *testing.T) {
	ev, err := decodeFrame([]byte(`{"error":"no-speech"}`))
	require.NoError(t, err)
	assert.Equal(t, EventError, ev.Kind)
	assert.EqualError(t, ev.Err, "no-speech")

	ev, err = decodeFrame([]byte(`{"type":"error"}`))
	require.NoError(t, err)
	assert.Equal(t, EventError, ev.Kind)

	_, err = decodeFrame([]byte(`not json`))
	assert.Error(t, err)
}

func TestScriptSourceReplaysAndEnds(t *testing.T) {
	src := &ScriptSource{Events: []Event{
		Results(Interim("hel")),
		Results(Final("hello")),
	}}

	sess, err := src.Start(context.Background(), "en-US")
	require.NoError(t, err)

	events := collect(t, sess)
	assert.Equal(t, []EventKind{EventResult, EventResult, EventEnd}, kinds(events))
	assert.Equal(t, 1, src.Starts())
}

func TestScriptSourceStopsAfterError(t *testing.T) {
	src := &ScriptSource{Events: []Event{
		Results(Interim("hel")),
		{Kind: EventError, Err: errors.New("network")},
		Results(Interim("never")),
	}}

	sess, err := src.Start(context.Background(), "en-US")
	require.NoError(t, err)

	events := collect(t, sess)
	assert.Equal(t, []EventKind{EventResult, EventError, EventEnd}, kinds(events))
}

func TestScriptSourceUnavailable(t *testing.T) {
	src := &ScriptSource{Unavailable: true}
	_, err := src.Start(context.Background(), "en-US")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSessionStopClosesEvents(t *testing.T) {
	src := &ScriptSource{
		Events: []Event{Results(Interim("a")), Results(Interim("b"))},
		Delay:  time.Hour,
	}

	sess, err := src.Start(context.Background(), "en-US")
	require.NoError(t, err)
	require.NoError(t, sess.Stop())
	require.NoError(t, sess.Stop())

	// 停止后不会再收到识别结果
	for ev := range sess.Events() {
		assert.NotEqual(t, EventResult, ev.Kind)
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.DictationConfig{})
	require.NoError(t, err)
	assert.Nil(t, src)

	src, err = NewSource(config.DictationConfig{Mode: config.DictationModeCommand, Command: []string{"stt"}})
	require.NoError(t, err)
	assert.IsType(t, &CommandSource{}, src)

	src, err = NewSource(config.DictationConfig{Mode: config.DictationModeWebSocket, URL: "ws://localhost/stt"})
	require.NoError(t, err)
	assert.IsType(t, &WebSocketSource{}, src)

	src, err = NewSource(config.DictationConfig{
		Mode: config.DictationModeScript,
		Script: []config.ScriptStep{
			{Text: "hel"},
			{Text: "hello", Final: true, DelayMS: 50},
		},
	})
	require.NoError(t, err)
	script, ok := src.(*ScriptSource)
	require.True(t, ok)
	assert.Equal(t, []Event{Results(Interim("hel")), Results(Final("hello"))}, script.Events)
	assert.Equal(t, 50*time.Millisecond, script.Delay)

	_, err = NewSource(config.DictationConfig{Mode: "telepathy"})
	assert.Error(t, err)
}
