package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/Zacy-Sokach/PolicyChat/internal/api"
	"github.com/Zacy-Sokach/PolicyChat/internal/config"
	"github.com/Zacy-Sokach/PolicyChat/internal/logger"
	"github.com/Zacy-Sokach/PolicyChat/internal/tui"
	"github.com/Zacy-Sokach/PolicyChat/internal/utils"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	Version = "dev"
)

type flags struct {
	reducedMotion bool
	dictation     string
	logLevel      string
}

func main() {
	// 添加panic恢复
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("程序发生panic: %v\n", r)
			fmt.Println("堆栈跟踪:")
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "policychat",
		Short:         "PolicyChat - Government Policy Assistant",
		Long:          "在终端中向政策问答服务 (" + api.DefaultEndpoint + ") 提问，支持语音听写。",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().BoolVar(&f.reducedMotion, "reduced-motion", false, "直接显示完整回答，不使用逐字动画")
	cmd.Flags().StringVar(&f.dictation, "dictation", "", "听写模式: command, websocket, script (默认读取配置)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "日志级别: debug, info, warn, error")
	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		return err
	}

	if f.reducedMotion {
		cfg.Reveal.ReducedMotion = true
	}
	if cmd.Flags().Changed("dictation") {
		cfg.Dictation.Mode = f.dictation
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	logPath, err := utils.GetLogPath()
	if err != nil {
		fmt.Printf("获取日志路径失败: %v\n", err)
		return err
	}
	if err := logger.Init(logPath, cfg.Log.Level); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		return err
	}
	defer logger.Close()

	// 检查是否在交互式终端中
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("PolicyChat 需要在交互式终端中运行")
		fmt.Printf("配置文件: %s\n", utils.GetConfigPathForDisplay())
		return nil
	}

	bus := tui.NewMemoryEventBus()
	tui.SubscribeLogging(bus)

	tui.Version = Version
	model, err := tui.NewModelBuilder().
		WithConfig(cfg).
		WithAsker(api.NewClient()).
		WithEventBus(bus).
		Build()
	if err != nil {
		fmt.Printf("创建界面失败: %v\n", err)
		return err
	}
	defer model.Close()

	logger.InfoCF("main", "PolicyChat started", map[string]interface{}{
		"version":   Version,
		"endpoint":  api.DefaultEndpoint,
		"dictation": cfg.Dictation.Mode,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("程序运行错误: %v\n", err)
		return err
	}
	return nil
}

// loadConfig 首次运行时写入默认配置，方便用户修改
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if !config.Exists() {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return nil, err
		}
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("已创建默认配置: " + utils.GetConfigPathForDisplay()))
	}
	return cfg, nil
}
