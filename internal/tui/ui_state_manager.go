package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	inputHeight = 3
	// 标题、输入框、帮助行和间隔占用的行数
	chromeHeight = inputHeight + 5
	minViewport  = 3
)

// UIStateManager 管理UI组件的状态
type UIStateManager struct {
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	ready    bool
	width    int
	height   int
}

// NewUIStateManager 创建新的UI状态管理器
func NewUIStateManager() *UIStateManager {
	ta := textarea.New()
	ta.Placeholder = "Ask a question..."
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(inputHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(80, 20)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(loaderStyle))

	return &UIStateManager{
		viewport: vp,
		textarea: ta,
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

// IsReady 收到第一个窗口尺寸后才渲染
func (u *UIStateManager) IsReady() bool {
	return u.ready
}

// Resize 更新各组件尺寸
func (u *UIStateManager) Resize(width, height int) {
	vpHeight := height - chromeHeight
	if vpHeight < minViewport {
		vpHeight = minViewport
	}

	if !u.ready {
		u.viewport = viewport.New(width, vpHeight)
		u.viewport.YPosition = 0
		u.ready = true
	} else {
		u.viewport.Width = width
		u.viewport.Height = vpHeight
	}
	u.textarea.SetWidth(width)
	u.width = width
	u.height = height
}

func (u *UIStateManager) Width() int {
	return u.width
}

func (u *UIStateManager) Height() int {
	return u.height
}

func (u *UIStateManager) Input() string {
	return u.textarea.Value()
}

// SetInput 设置输入框内容并把光标移到末尾
func (u *UIStateManager) SetInput(s string) {
	u.textarea.SetValue(s)
	u.textarea.CursorEnd()
}

func (u *UIStateManager) ResetInput() {
	u.textarea.Reset()
}

func (u *UIStateManager) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	u.textarea, cmd = u.textarea.Update(msg)
	return cmd
}

func (u *UIStateManager) UpdateViewport(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	u.viewport, cmd = u.viewport.Update(msg)
	return cmd
}

// SetContent 更新消息区域并保持滚动到底部
func (u *UIStateManager) SetContent(content string) {
	u.viewport.SetContent(content)
	u.viewport.GotoBottom()
}

func (u *UIStateManager) SpinnerTick() tea.Msg {
	return u.spinner.Tick()
}

func (u *UIStateManager) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	u.spinner, cmd = u.spinner.Update(msg)
	return cmd
}

func (u *UIStateManager) SpinnerView() string {
	return u.spinner.View()
}

func (u *UIStateManager) ViewportView() string {
	return u.viewport.View()
}

func (u *UIStateManager) InputView() string {
	return u.textarea.View()
}
