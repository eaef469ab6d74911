// Package reveal 实现助手回复的打字机式逐字显示。
//
// Animation 本身不启动任何定时器：Start 和 Advance 返回下一步的 Tick，
// 由调用方（Bubble Tea 的 tea.Tick）在延迟后把 Tick 送回来。
// 过期或已取消的 Tick 会被直接忽略，因此取消之后不会再触发任何回调。
package reveal
