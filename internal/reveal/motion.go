package reveal

import "github.com/muesli/termenv"

// MotionPreference 是否偏好减少动效，每次动画开始时检查一次
type MotionPreference interface {
	ReducedMotion() bool
}

// StaticMotion 固定的偏好
type StaticMotion bool

func (s StaticMotion) ReducedMotion() bool {
	return bool(s)
}

// TerminalMotion 配置强制关闭动效，或终端不支持颜色（dumb 终端、NO_COLOR、非 TTY）时减少动效
type TerminalMotion struct {
	Forced  bool
	profile func() termenv.Profile
}

func NewTerminalMotion(forced bool) *TerminalMotion {
	return &TerminalMotion{
		Forced:  forced,
		profile: termenv.EnvColorProfile,
	}
}

func (m *TerminalMotion) ReducedMotion() bool {
	if m.Forced {
		return true
	}
	if m.profile == nil {
		return false
	}
	return m.profile() == termenv.Ascii
}
