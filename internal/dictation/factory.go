package dictation

import (
	"fmt"
	"time"

	"github.com/Zacy-Sokach/PolicyChat/internal/config"
)

// NewSource 按配置创建识别来源。未启用听写时返回 nil，调用方应视为不可用。
func NewSource(cfg config.DictationConfig) (Source, error) {
	switch cfg.Mode {
	case config.DictationModeNone:
		return nil, nil
	case config.DictationModeCommand:
		return NewCommandSource(cfg.Command), nil
	case config.DictationModeWebSocket:
		return NewWebSocketSource(cfg.URL), nil
	case config.DictationModeScript:
		return scriptFromConfig(cfg.Script), nil
	default:
		return nil, fmt.Errorf("未知的听写模式: %q", cfg.Mode)
	}
}

func scriptFromConfig(steps []config.ScriptStep) *ScriptSource {
	src := &ScriptSource{Delay: 300 * time.Millisecond}
	for _, step := range steps {
		src.Events = append(src.Events, Results(Segment{Text: step.Text, Final: step.Final}))
		if step.DelayMS > 0 {
			src.Delay = time.Duration(step.DelayMS) * time.Millisecond
		}
	}
	return src
}
