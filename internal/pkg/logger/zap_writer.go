package logger

import (
	"github.com/zeromicro/go-zero/core/logx"
	"go.uber.org/zap"
)

// ZapWriter 把 go-zero logx 的输出桥接到全局 zap 日志器，
// 使 logx.Logger（各处理器内嵌）与 logger.Xxxf 写入同一套输出。
type ZapWriter struct{}

var _ logx.Writer = ZapWriter{}

func (w ZapWriter) Alert(v interface{}) {
	log.Error(sprint(v))
}

func (w ZapWriter) Close() error {
	return log.Sync()
}

func (w ZapWriter) Debug(v interface{}, fields ...logx.LogField) {
	log.Debug(sprint(v), toZapFields(fields...)...)
}

func (w ZapWriter) Error(v interface{}, fields ...logx.LogField) {
	log.Error(sprint(v), toZapFields(fields...)...)
}

func (w ZapWriter) Info(v interface{}, fields ...logx.LogField) {
	log.Info(sprint(v), toZapFields(fields...)...)
}

func (w ZapWriter) Severe(v interface{}) {
	log.Error(sprint(v))
}

func (w ZapWriter) Slow(v interface{}, fields ...logx.LogField) {
	log.Warn(sprint(v), toZapFields(fields...)...)
}

func (w ZapWriter) Stack(v interface{}) {
	log.Error(sprint(v), zap.Stack("stack"))
}

func (w ZapWriter) Stat(v interface{}, fields ...logx.LogField) {
	log.Info(sprint(v), toZapFields(fields...)...)
}

func toZapFields(fields ...logx.LogField) []zap.Field {
	zf := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zf = append(zf, zap.Any(f.Key, f.Value))
	}
	return zf
}
