package reveal

import (
	"math/rand/v2"
	"sync/atomic"
	"time"
)

const (
	DefaultSpeed = 8 * time.Millisecond
	MinSpeed     = 3 * time.Millisecond
	MaxJitter    = 10 * time.Millisecond
)

// generation 全局递增，保证不同动画的 Tick 不会混淆
var generation atomic.Uint64

// RevealState 某条消息当前的显示进度，Displayed 按字符（rune）计数
type RevealState struct {
	FullText  string
	Displayed int
	Done      bool
}

// Tick 调度下一步所需的信息
type Tick struct {
	ID    string
	Gen   uint64
	Delay time.Duration
}

type Options struct {
	// Speed 每个字符的最小间隔
	Speed  time.Duration
	Motion MotionPreference
	// Jitter 返回 [0, MaxJitter) 的随机抖动，nil 时使用 DefaultJitter
	Jitter func() time.Duration
}

// NormalizeSpeed 0 取默认值，低于 MinSpeed 的取 MinSpeed
func NormalizeSpeed(d time.Duration) time.Duration {
	if d == 0 {
		return DefaultSpeed
	}
	if d < MinSpeed {
		return MinSpeed
	}
	return d
}

// DefaultJitter 均匀分布的随机抖动，避免机械的节奏
func DefaultJitter() time.Duration {
	return rand.N(MaxJitter)
}

// Animation 一次逐字显示，非并发安全，只应在同一个事件循环里使用
type Animation struct {
	id         string
	text       string
	runes      []rune
	displayed  int
	started    bool
	done       bool
	cancelled  bool
	gen        uint64
	speed      time.Duration
	motion     MotionPreference
	jitter     func() time.Duration
	onProgress func()
	onComplete func(string)
}

// NewAnimation 创建动画，回调可以为 nil
func NewAnimation(id, fullText string, opts Options, onProgress func(), onComplete func(string)) *Animation {
	jitter := opts.Jitter
	if jitter == nil {
		jitter = DefaultJitter
	}
	return &Animation{
		id:         id,
		text:       fullText,
		runes:      []rune(fullText),
		gen:        generation.Add(1),
		speed:      NormalizeSpeed(opts.Speed),
		motion:     opts.Motion,
		jitter:     jitter,
		onProgress: onProgress,
		onComplete: onComplete,
	}
}

// Start 开始显示。减少动效时一次性显示全文；否则同步显示第一个字符并返回下一步的 Tick。
// 空文本不做任何事。
func (a *Animation) Start() (Tick, bool) {
	if a.started || a.cancelled || len(a.runes) == 0 {
		return Tick{}, false
	}
	a.started = true

	if a.motion != nil && a.motion.ReducedMotion() {
		a.displayed = len(a.runes)
		a.finish()
		return Tick{}, false
	}
	return a.step()
}

// Advance 显示下一个字符。Tick 过期、动画已取消或已完成时不做任何事。
func (a *Animation) Advance(gen uint64) (Tick, bool) {
	if gen != a.gen || !a.started || a.done || a.cancelled {
		return Tick{}, false
	}
	return a.step()
}

func (a *Animation) step() (Tick, bool) {
	a.displayed++
	if a.displayed < len(a.runes) {
		a.progress()
		return Tick{ID: a.id, Gen: a.gen, Delay: a.speed + a.jitter()}, true
	}
	a.finish()
	return Tick{}, false
}

// finish 最后一次长度变化：先通知进度，再通知完成
func (a *Animation) finish() {
	a.done = true
	a.progress()
	if a.onComplete != nil {
		a.onComplete(a.text)
	}
}

func (a *Animation) progress() {
	if a.onProgress != nil {
		a.onProgress()
	}
}

// Cancel 停止动画，之后收到的 Tick 都会被忽略
func (a *Animation) Cancel() {
	a.cancelled = true
}

func (a *Animation) ID() string       { return a.id }
func (a *Animation) FullText() string { return a.text }
func (a *Animation) Gen() uint64      { return a.gen }
func (a *Animation) Done() bool       { return a.done }
func (a *Animation) Cancelled() bool  { return a.cancelled }

// Running 已开始且仍在显示中
func (a *Animation) Running() bool {
	return a.started && !a.done && !a.cancelled
}

// Visible 当前应显示的前缀
func (a *Animation) Visible() string {
	return string(a.runes[:a.displayed])
}

func (a *Animation) State() RevealState {
	return RevealState{
		FullText:  a.text,
		Displayed: a.displayed,
		Done:      a.done,
	}
}
