package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Zacy-Sokach/PolicyChat/internal/api"
	"github.com/Zacy-Sokach/PolicyChat/internal/dictation"
	"github.com/Zacy-Sokach/PolicyChat/internal/logger"
	"github.com/Zacy-Sokach/PolicyChat/internal/reveal"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Version 是当前的 PolicyChat 版本，由 main 包设置
var Version string

const (
	Greeting        = "Hello! Ask me about government policies."
	HeaderTitle     = "Government Policy Assistant"
	LoaderText      = "Thinking..."
	ServerErrorText = "Server error. Please try again."

	unavailableNotice = "Speech recognition is not available on this system."
)

// Asker 发送问题并返回回答，api.Client 实现了它
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Options struct {
	Asker Asker
	// Source 为 nil 表示没有语音识别能力
	Source   dictation.Source
	Language string
	Reveal   reveal.Options
	Bus      EventBus
}

// Model 对话视图
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	asker    Asker
	source   dictation.Source
	language string
	bus      EventBus

	conv    *Conversation
	acc     *dictation.Accumulator
	reveals *reveal.Tracker
	ui      *UIStateManager

	requestID int

	sessionID int
	session   dictation.Session
	starting  bool

	notice string
	closed bool
}

func NewModel(opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	asker := opts.Asker
	if asker == nil {
		asker = api.NewClient()
	}
	bus := opts.Bus
	if bus == nil {
		bus = NewMemoryEventBus()
	}

	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		asker:    asker,
		source:   opts.Source,
		language: opts.Language,
		bus:      bus,
		conv:     NewConversation(Greeting),
		acc:      dictation.NewAccumulator(),
		reveals:  reveal.NewTracker(opts.Reveal),
		ui:       NewUIStateManager(),
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		// 拆除后启动成功的会话也要停掉
		if started, ok := msg.(DictationStartedMsg); ok && started.Session != nil {
			_ = started.Session.Stop()
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.ui.Resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		return m, m.ui.UpdateViewport(msg)

	case spinner.TickMsg:
		if !m.conv.Loading() {
			return m, nil
		}
		cmd := m.ui.UpdateSpinner(msg)
		m.refresh()
		return m, cmd

	case ChatReplyMsg:
		return m, m.handleReply(msg)

	case RevealTickMsg:
		if next, ok := m.reveals.Advance(msg.Tick); ok {
			return m, scheduleReveal(next)
		}
		return m, nil

	case DictationStartedMsg:
		return m, m.handleDictationStarted(msg)

	case DictationEventMsg:
		return m, m.handleDictationEvent(msg)

	case DictationClosedMsg:
		if msg.SessionID == m.sessionID && m.session != nil {
			m.stopDictation()
		}
		return m, nil
	}

	return m, m.ui.UpdateInput(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.Close()
		return tea.Quit
	}

	// 提示框显示时任意键关闭它
	if m.notice != "" {
		m.notice = ""
		return nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.send()
	case tea.KeyCtrlR:
		return m.toggleDictation()
	case tea.KeyEsc:
		if m.Dictating() {
			m.stopDictation()
		}
		return nil
	case tea.KeyPgUp, tea.KeyPgDown:
		return m.ui.UpdateViewport(msg)
	}

	before := m.ui.Input()
	cmd := m.ui.UpdateInput(msg)
	if after := m.ui.Input(); after != before {
		m.acc.Edit(after)
	}
	return cmd
}

// send 发送输入框中的问题。加载中或输入为空时不做任何事
func (m *Model) send() tea.Cmd {
	question := strings.TrimSpace(m.ui.Input())
	if m.conv.Loading() || question == "" {
		return nil
	}

	msg := m.conv.Append(question, true)
	m.bus.Publish(NewMessageAddedEvent(msg))

	if m.Dictating() {
		m.stopDictation()
	}
	m.acc.Reset()
	m.ui.ResetInput()

	m.conv.SetLoading(true)
	m.requestID++
	m.refresh()

	return tea.Batch(m.ui.SpinnerTick, m.ask(m.requestID, question))
}

func (m *Model) ask(requestID int, question string) tea.Cmd {
	ctx, asker := m.ctx, m.asker
	return func() tea.Msg {
		answer, err := asker.Ask(ctx, question)
		return ChatReplyMsg{RequestID: requestID, Answer: answer, Err: err}
	}
}

func (m *Model) handleReply(msg ChatReplyMsg) tea.Cmd {
	if msg.RequestID != m.requestID || !m.conv.Loading() {
		return nil
	}
	m.conv.SetLoading(false)

	text := msg.Answer
	if msg.Err != nil {
		m.bus.Publish(NewChatFailedEvent(msg.Err))
		text = ServerErrorText
	}

	reply := m.conv.Append(text, false)
	m.bus.Publish(NewMessageAddedEvent(reply))
	return m.startReveal(reply)
}

func (m *Model) startReveal(msg Message) tea.Cmd {
	id := msg.ID
	tick, ok := m.reveals.Begin(id, msg.Text, m.refresh, func(full string) {
		m.bus.Publish(NewRevealCompletedEvent(id, len([]rune(full))))
	})
	// 空文本不会触发进度回调
	m.refresh()
	if !ok {
		return nil
	}
	return scheduleReveal(tick)
}

func scheduleReveal(tick reveal.Tick) tea.Cmd {
	return tea.Tick(tick.Delay, func(time.Time) tea.Msg {
		return RevealTickMsg{Tick: tick}
	})
}

// Dictating 听写会话正在启动或进行中
func (m *Model) Dictating() bool {
	return m.starting || m.session != nil || m.acc.Active()
}

func (m *Model) toggleDictation() tea.Cmd {
	if m.Dictating() {
		m.stopDictation()
		return nil
	}
	if m.source == nil {
		m.notice = unavailableNotice
		m.bus.Publish(NewDictationEvent(EventTypeDictationFailed, m.sessionID, dictation.ErrUnavailable))
		return nil
	}

	m.sessionID++
	m.starting = true

	id, source, ctx, lang := m.sessionID, m.source, m.ctx, m.language
	return func() tea.Msg {
		sess, err := source.Start(ctx, lang)
		return DictationStartedMsg{SessionID: id, Session: sess, Err: err}
	}
}

func (m *Model) handleDictationStarted(msg DictationStartedMsg) tea.Cmd {
	if msg.SessionID != m.sessionID || !m.starting {
		if msg.Session != nil {
			_ = msg.Session.Stop()
		}
		return nil
	}
	m.starting = false

	if msg.Err != nil {
		if errors.Is(msg.Err, dictation.ErrUnavailable) {
			m.notice = unavailableNotice
		}
		m.bus.Publish(NewDictationEvent(EventTypeDictationFailed, msg.SessionID, msg.Err))
		return nil
	}

	m.session = msg.Session
	m.acc.Begin(m.ui.Input())
	m.bus.Publish(NewDictationEvent(EventTypeDictationStarted, msg.SessionID, nil))
	return waitForDictation(msg.SessionID, msg.Session)
}

func (m *Model) handleDictationEvent(msg DictationEventMsg) tea.Cmd {
	if msg.SessionID != m.sessionID || m.session == nil {
		return nil
	}

	switch msg.Event.Kind {
	case dictation.EventResult:
		m.ui.SetInput(m.acc.Apply(msg.Event))
		return waitForDictation(msg.SessionID, m.session)
	case dictation.EventError:
		m.bus.Publish(NewDictationEvent(EventTypeDictationFailed, msg.SessionID, msg.Event.Err))
		m.stopDictation()
	case dictation.EventEnd:
		m.stopDictation()
	}
	return nil
}

func waitForDictation(sessionID int, sess dictation.Session) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sess.Events()
		if !ok {
			return DictationClosedMsg{SessionID: sessionID}
		}
		return DictationEventMsg{SessionID: sessionID, Event: ev}
	}
}

// stopDictation 结束当前会话，输入框内容保持不变。之后收到的会话消息都会被忽略
func (m *Model) stopDictation() {
	id := m.sessionID
	m.sessionID++
	m.starting = false

	if m.session != nil {
		if err := m.session.Stop(); err != nil {
			logger.WarnCF("tui", "Failed to stop dictation session", map[string]interface{}{
				"session": id,
				"error":   err,
			})
		}
		m.session = nil
	}
	if m.acc.Active() {
		m.acc.Stop()
	}
	m.bus.Publish(NewDictationEvent(EventTypeDictationStopped, id, nil))
}

// Close 拆除视图：停止语音识别，取消所有动画和进行中的请求
func (m *Model) Close() {
	if m.closed {
		return
	}
	if m.Dictating() {
		m.stopDictation()
	}
	m.reveals.CancelAll()
	m.cancel()
	m.closed = true
	m.bus.Publish(NewBaseEvent(EventTypeTeardown, nil))
}

func (m *Model) refresh() {
	m.ui.SetContent(m.renderMessages())
}

func (m *Model) Messages() []Message {
	return m.conv.Messages()
}

func (m *Model) Loading() bool {
	return m.conv.Loading()
}

func (m *Model) Input() string {
	return m.ui.Input()
}

func (m *Model) Notice() string {
	return m.notice
}

func (m *Model) Closed() bool {
	return m.closed
}
