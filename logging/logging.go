// Package logging 持有全局共享的 slog 日志器。默认静默，调用 SetLogger 后才会输出。
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃全部日志；Enabled 返回 false，调用方不会格式化消息。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 设置全局日志器，传入 nil 恢复静默。
//
// 使用的级别：
//   - Debug：缓存命中/未命中、模板读取
//   - Info：一次组版完成（页数、渲染数）
//   - Warn：模板缺少预期的槽位
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器，可并发调用。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
