package dictation

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/Zacy-Sokach/PolicyChat/internal/logger"
)

// LangPlaceholder 命令参数中会被替换为语言标签的占位符
const LangPlaceholder = "{lang}"

const maxLineSize = 1024 * 1024

// CommandSource 运行外部识别程序，每行标准输出是一个 JSON 识别结果，输出结束即会话结束
type CommandSource struct {
	Argv     []string
	lookPath func(string) (string, error)
}

func NewCommandSource(argv []string) *CommandSource {
	return &CommandSource{
		Argv:     argv,
		lookPath: exec.LookPath,
	}
}

func (s *CommandSource) Start(ctx context.Context, lang string) (Session, error) {
	if len(s.Argv) == 0 {
		return nil, ErrUnavailable
	}

	path, err := s.lookPath(s.Argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	args := make([]string, 0, len(s.Argv)-1)
	for _, arg := range s.Argv[1:] {
		args = append(args, strings.ReplaceAll(arg, LangPlaceholder, lang))
	}

	cmdCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cmdCtx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("创建识别程序输出管道失败: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("启动识别程序失败: %w", err)
	}

	logger.InfoCF("dictation", "recognizer command started", map[string]interface{}{
		"command": s.Argv[0],
		"lang":    lang,
		"pid":     cmd.Process.Pid,
	})

	sess := newSession(func() error {
		cancel()
		return nil
	})

	go func() {
		defer cancel()
		defer sess.finish()

		if readFrames(sess, stdout, "command") {
			// 已经收到错误或结束事件，不再等待识别程序自行退出
			cancel()
		}

		// 被 Stop 终止时忽略退出码
		if err := cmd.Wait(); err != nil && !sess.stopped() && cmdCtx.Err() == nil {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			sess.fail(fmt.Errorf("识别程序异常退出: %s", msg))
		}
	}()

	return sess, nil
}

// readFrames 逐行解析 JSON，直到输出结束、会话停止或收到错误/结束事件。
// 因后两者提前返回时结果为 true。
func readFrames(sess *session, r io.Reader, transport string) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := decodeFrame(line)
		if err != nil {
			logger.WarnCF("dictation", "skipping malformed frame", map[string]interface{}{
				"transport": transport,
				"error":     err,
			})
			continue
		}

		if !sess.emit(ev) || terminal(ev) {
			return true
		}
	}

	if err := scanner.Err(); err != nil && !sess.stopped() {
		sess.fail(fmt.Errorf("读取识别结果失败: %w", err))
		return true
	}
	return false
}
