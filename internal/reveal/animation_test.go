package reveal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder 记录回调顺序
type recorder struct {
	anim      *Animation
	lengths   []int
	completed []string
}

func (r *recorder) progress() {
	r.lengths = append(r.lengths, r.anim.State().Displayed)
}

func (r *recorder) complete(text string) {
	r.completed = append(r.completed, text)
}

func newRecorded(text string, opts Options) *recorder {
	r := &recorder{}
	r.anim = NewAnimation("m1", text, opts, r.progress, r.complete)
	return r
}

func zeroJitter() time.Duration { return 0 }

// runToEnd 按返回的 Tick 一直推进，返回推进次数
func runToEnd(a *Animation, tick Tick, ok bool) int {
	steps := 0
	for ok {
		tick, ok = a.Advance(tick.Gen)
		steps++
	}
	return steps
}

func TestRevealSequence(t *testing.T) {
	for _, text := range []string{"a", "hi", "Tax policy is X.", "税收政策"} {
		t.Run(text, func(t *testing.T) {
			r := newRecorded(text, Options{Jitter: zeroJitter})
			tick, ok := r.anim.Start()
			runToEnd(r.anim, tick, ok)

			n := len([]rune(text))
			want := make([]int, n)
			for i := range want {
				want[i] = i + 1
			}
			assert.Equal(t, want, r.lengths)
			assert.Equal(t, []string{text}, r.completed)
			assert.Equal(t, text, r.anim.Visible())
			assert.Equal(t, RevealState{FullText: text, Displayed: n, Done: true}, r.anim.State())
		})
	}
}

func TestRevealEmptyText(t *testing.T) {
	r := newRecorded("", Options{})
	_, ok := r.anim.Start()

	assert.False(t, ok)
	assert.Empty(t, r.lengths)
	assert.Empty(t, r.completed)
	assert.False(t, r.anim.Done())
}

func TestRevealReducedMotion(t *testing.T) {
	r := newRecorded("Tax policy is X.", Options{Motion: StaticMotion(true)})
	_, ok := r.anim.Start()

	assert.False(t, ok)
	assert.Equal(t, []int{len("Tax policy is X.")}, r.lengths)
	assert.Equal(t, []string{"Tax policy is X."}, r.completed)
	assert.Equal(t, "Tax policy is X.", r.anim.Visible())
}

func TestRevealCancelStopsScheduledTick(t *testing.T) {
	r := newRecorded("hello world", Options{Jitter: zeroJitter})
	tick, ok := r.anim.Start()
	require.True(t, ok)

	// 推进到第 3 个字符，然后在 Tick 已调度的情况下取消
	for i := 0; i < 2; i++ {
		tick, ok = r.anim.Advance(tick.Gen)
		require.True(t, ok)
	}
	r.anim.Cancel()

	_, ok = r.anim.Advance(tick.Gen)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2, 3}, r.lengths)
	assert.Empty(t, r.completed)
	assert.Equal(t, "hel", r.anim.Visible())
}

func TestRevealIgnoresForeignGeneration(t *testing.T) {
	r := newRecorded("abc", Options{Jitter: zeroJitter})
	tick, ok := r.anim.Start()
	require.True(t, ok)

	_, ok = r.anim.Advance(tick.Gen + 1000)
	assert.False(t, ok)
	assert.Equal(t, []int{1}, r.lengths)
}

func TestRevealCompleteOnlyOnce(t *testing.T) {
	r := newRecorded("ab", Options{Jitter: zeroJitter})
	tick, ok := r.anim.Start()
	runToEnd(r.anim, tick, ok)

	// 重复送达最后一个 Tick 或再次 Start 都不应再触发回调
	r.anim.Advance(tick.Gen)
	r.anim.Start()
	assert.Equal(t, []string{"ab"}, r.completed)
	assert.Equal(t, []int{1, 2}, r.lengths)
}

func TestRevealDelay(t *testing.T) {
	a := NewAnimation("m1", "abc", Options{
		Speed:  20 * time.Millisecond,
		Jitter: func() time.Duration { return 7 * time.Millisecond },
	}, nil, nil)

	tick, ok := a.Start()
	require.True(t, ok)
	assert.Equal(t, 27*time.Millisecond, tick.Delay)
	assert.Equal(t, "m1", tick.ID)
	assert.Equal(t, a.Gen(), tick.Gen)
}

func TestDefaultJitterRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		d := DefaultJitter()
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, MaxJitter)
	}
}

func TestNormalizeSpeed(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, DefaultSpeed},
		{time.Millisecond, MinSpeed},
		{-5 * time.Millisecond, MinSpeed},
		{3 * time.Millisecond, 3 * time.Millisecond},
		{25 * time.Millisecond, 25 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSpeed(tt.in), "NormalizeSpeed(%v)", tt.in)
	}
}
