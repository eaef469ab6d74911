// Package dictation 把语音识别的中间结果和最终结果合成为输入框里的一段文本。
package dictation

import "strings"

// Segment 一段识别结果
type Segment struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

type EventKind int

const (
	EventResult EventKind = iota
	EventError
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventResult:
		return "result"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event 识别会话发出的事件。Result 事件只有 Results[ResultIndex:] 是本次新增的。
type Event struct {
	Kind        EventKind
	ResultIndex int
	Results     []Segment
	Err         error
}

// DictationState 已提交文本和当前中间片段
type DictationState struct {
	Committed string
	Interim   string
}

// Accumulator 维护听写文本，非并发安全
type Accumulator struct {
	committed string
	interim   string
	active    bool
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Begin 开始听写，用输入框当前内容作为已提交文本，避免覆盖用户已经输入的内容
func (a *Accumulator) Begin(fieldText string) {
	a.committed = fieldText
	a.interim = ""
	a.active = true
}

// Apply 处理一个识别事件并返回输入框应显示的文本。
// 最终片段追加到已提交文本，中间片段整体替换上一次的中间片段。
func (a *Accumulator) Apply(ev Event) string {
	if !a.active || ev.Kind != EventResult {
		return a.Value()
	}

	start := ev.ResultIndex
	if start < 0 {
		start = 0
	}
	if start > len(ev.Results) {
		start = len(ev.Results)
	}

	var finals, interims strings.Builder
	for _, seg := range ev.Results[start:] {
		if seg.Final {
			finals.WriteString(seg.Text)
		} else {
			interims.WriteString(seg.Text)
		}
	}

	if final := collapseSpaces(finals.String()); final != "" {
		a.committed = Join(a.committed, final)
	}
	a.interim = collapseSpaces(interims.String())

	return a.Value()
}

// Edit 未在听写时，手动编辑直接更新已提交文本。听写中返回 false，输入框会被下一次识别结果覆盖。
func (a *Accumulator) Edit(text string) bool {
	if a.active {
		return false
	}
	a.committed = text
	a.interim = ""
	return true
}

// Stop 结束听写，输入框内容保持不变
func (a *Accumulator) Stop() {
	a.active = false
}

// Reset 发送消息后清空
func (a *Accumulator) Reset() {
	a.committed = ""
	a.interim = ""
}

func (a *Accumulator) Active() bool {
	return a.active
}

// Value 输入框显示的文本
func (a *Accumulator) Value() string {
	return Join(a.committed, a.interim)
}

func (a *Accumulator) State() DictationState {
	return DictationState{
		Committed: a.committed,
		Interim:   a.interim,
	}
}

// Join 两端去空白后用一个空格连接，空的一侧直接省略
func Join(committed, interim string) string {
	committed = strings.TrimSpace(committed)
	interim = strings.TrimSpace(interim)
	switch {
	case committed == "":
		return interim
	case interim == "":
		return committed
	default:
		return committed + " " + interim
	}
}

// collapseSpaces 识别结果内部的连续空白合并为一个空格
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
