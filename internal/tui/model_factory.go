package tui

import (
	"fmt"
	"time"

	"github.com/Zacy-Sokach/PolicyChat/internal/config"
	"github.com/Zacy-Sokach/PolicyChat/internal/dictation"
	"github.com/Zacy-Sokach/PolicyChat/internal/reveal"
)

// ModelBuilder 模型构建器
type ModelBuilder struct {
	opts Options
	cfg  *config.Config
}

// NewModelBuilder 创建新的模型构建器
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{}
}

// WithConfig 从配置生成听写源和动画参数，显式设置的选项优先
func (b *ModelBuilder) WithConfig(cfg *config.Config) *ModelBuilder {
	b.cfg = cfg
	return b
}

// WithAsker 设置问答客户端
func (b *ModelBuilder) WithAsker(asker Asker) *ModelBuilder {
	b.opts.Asker = asker
	return b
}

// WithSource 设置语音识别源
func (b *ModelBuilder) WithSource(source dictation.Source) *ModelBuilder {
	b.opts.Source = source
	return b
}

func (b *ModelBuilder) WithReveal(opts reveal.Options) *ModelBuilder {
	b.opts.Reveal = opts
	return b
}

func (b *ModelBuilder) WithEventBus(bus EventBus) *ModelBuilder {
	b.opts.Bus = bus
	return b
}

// Build 构建模型
func (b *ModelBuilder) Build() (*Model, error) {
	opts := b.opts

	if b.cfg != nil {
		if err := b.cfg.Validate(); err != nil {
			return nil, fmt.Errorf("配置无效: %w", err)
		}
		if opts.Source == nil {
			source, err := dictation.NewSource(b.cfg.Dictation)
			if err != nil {
				return nil, fmt.Errorf("创建语音识别源失败: %w", err)
			}
			opts.Source = source
		}
		if opts.Language == "" {
			opts.Language = b.cfg.Dictation.Language
		}
		if opts.Reveal.Motion == nil {
			opts.Reveal = RevealOptionsFromConfig(b.cfg.Reveal)
		}
	}
	if opts.Language == "" {
		opts.Language = config.DefaultLanguage
	}

	return NewModel(opts), nil
}

// RevealOptionsFromConfig 根据配置和终端能力生成动画参数
func RevealOptionsFromConfig(cfg config.RevealConfig) reveal.Options {
	return reveal.Options{
		Speed:  time.Duration(cfg.SpeedMS) * time.Millisecond,
		Motion: reveal.NewTerminalMotion(cfg.ReducedMotion),
		Jitter: reveal.DefaultJitter,
	}
}
