package reveal

// Tracker 按消息 ID 管理动画，同一条消息最多只有一个活动的动画
type Tracker struct {
	opts  Options
	anims map[string]*Animation
}

func NewTracker(opts Options) *Tracker {
	return &Tracker{
		opts:  opts,
		anims: make(map[string]*Animation),
	}
}

// Begin 为消息开始动画。同一条消息换了文本会取消旧动画；文本相同且仍在显示时保持原动画。
func (t *Tracker) Begin(id, text string, onProgress func(), onComplete func(string)) (Tick, bool) {
	if cur, ok := t.anims[id]; ok {
		if cur.FullText() == text && !cur.Cancelled() {
			return Tick{}, false
		}
		cur.Cancel()
	}

	a := NewAnimation(id, text, t.opts, onProgress, onComplete)
	t.anims[id] = a
	return a.Start()
}

// Advance 把 Tick 交给对应的动画，未知或过期的 Tick 被忽略
func (t *Tracker) Advance(tick Tick) (Tick, bool) {
	a, ok := t.anims[tick.ID]
	if !ok {
		return Tick{}, false
	}
	return a.Advance(tick.Gen)
}

func (t *Tracker) Get(id string) (*Animation, bool) {
	a, ok := t.anims[id]
	return a, ok
}

func (t *Tracker) State(id string) (RevealState, bool) {
	a, ok := t.anims[id]
	if !ok {
		return RevealState{}, false
	}
	return a.State(), true
}

// Visible 返回消息当前显示的文本；没有动画或已结束时 animating 为 false
func (t *Tracker) Visible(id string) (text string, animating bool) {
	a, ok := t.anims[id]
	if !ok || !a.Running() {
		return "", false
	}
	return a.Visible(), true
}

// Running 正在显示中的动画数量
func (t *Tracker) Running() int {
	n := 0
	for _, a := range t.anims {
		if a.Running() {
			n++
		}
	}
	return n
}

func (t *Tracker) Cancel(id string) {
	if a, ok := t.anims[id]; ok {
		a.Cancel()
		delete(t.anims, id)
	}
}

// CancelAll 拆除视图时调用
func (t *Tracker) CancelAll() {
	for id, a := range t.anims {
		a.Cancel()
		delete(t.anims, id)
	}
}
