package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Zacy-Sokach/PolicyChat/internal/utils"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRevealSpeedMS = 8
	DefaultLanguage      = "en-US"
	DefaultLogLevel      = "info"
)

// 听写来源模式
const (
	DictationModeNone      = ""
	DictationModeCommand   = "command"
	DictationModeWebSocket = "websocket"
	DictationModeScript    = "script"
)

type Config struct {
	Reveal    RevealConfig    `yaml:"reveal"`
	Dictation DictationConfig `yaml:"dictation"`
	Log       LogConfig       `yaml:"log"`
}

type RevealConfig struct {
	SpeedMS       int  `yaml:"speed_ms" env:"REVEAL_SPEED_MS"`
	ReducedMotion bool `yaml:"reduced_motion" env:"REVEAL_REDUCED_MOTION"`
}

type DictationConfig struct {
	Mode     string   `yaml:"mode" env:"DICTATION_MODE"`
	Command  []string `yaml:"command,omitempty" env:"DICTATION_COMMAND" envSeparator:","`
	URL      string   `yaml:"url,omitempty" env:"DICTATION_URL"`
	Language string   `yaml:"language" env:"DICTATION_LANGUAGE"`
	// Script 仅用于 script 模式，按顺序回放的识别片段
	Script []ScriptStep `yaml:"script,omitempty"`
}

// ScriptStep script 模式下的一个识别片段
type ScriptStep struct {
	Text    string `yaml:"text"`
	Final   bool   `yaml:"final"`
	DelayMS int    `yaml:"delay_ms,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Reveal: RevealConfig{
			SpeedMS: DefaultRevealSpeedMS,
		},
		Dictation: DictationConfig{
			Mode:     DictationModeNone,
			Language: DefaultLanguage,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// LoadConfig 读取配置文件并应用环境变量覆盖
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// 没有配置文件时使用默认值
	case err != nil:
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: "POLICYCHAT_"}); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Reveal.SpeedMS == 0 {
		c.Reveal.SpeedMS = DefaultRevealSpeedMS
	}
	if c.Dictation.Language == "" {
		c.Dictation.Language = DefaultLanguage
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate 检查听写配置是否完整
func (c *Config) Validate() error {
	switch c.Dictation.Mode {
	case DictationModeNone, DictationModeScript:
	case DictationModeCommand:
		if len(c.Dictation.Command) == 0 {
			return fmt.Errorf("听写模式 %q 需要配置 dictation.command", c.Dictation.Mode)
		}
	case DictationModeWebSocket:
		if c.Dictation.URL == "" {
			return fmt.Errorf("听写模式 %q 需要配置 dictation.url", c.Dictation.Mode)
		}
	default:
		return fmt.Errorf("未知的听写模式: %q", c.Dictation.Mode)
	}
	return nil
}

func SaveConfig(config *Config) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Exists 配置文件是否已经存在
func Exists() bool {
	configPath, err := getConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(configPath)
	return err == nil
}

func getConfigPath() (string, error) {
	configDir, err := utils.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("获取配置目录失败: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}
