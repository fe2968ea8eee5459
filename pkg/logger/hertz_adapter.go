package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HertzSlogAdapter routes hertz's hlog output into slog. Context variants use the
// request logger installed by the request middleware, so framework messages carry
// the request id of the request that produced them.
type HertzSlogAdapter struct {
	logger *slog.Logger
}

// NewHertzSlogAdapter creates a new Hertz logger adapter using slog
func NewHertzSlogAdapter(logger *slog.Logger) *HertzSlogAdapter {
	return &HertzSlogAdapter{logger: logger}
}

var _ hlog.FullLogger = (*HertzSlogAdapter)(nil)

// hlog has no slog equivalent for trace, notice and fatal
var hlogLevels = map[hlog.Level]slog.Level{
	hlog.LevelTrace:  slog.LevelDebug,
	hlog.LevelDebug:  slog.LevelDebug,
	hlog.LevelInfo:   slog.LevelInfo,
	hlog.LevelNotice: slog.LevelInfo,
	hlog.LevelWarn:   slog.LevelWarn,
	hlog.LevelError:  slog.LevelError,
	hlog.LevelFatal:  slog.LevelError,
}

func (h *HertzSlogAdapter) log(ctx context.Context, level hlog.Level, msg string) {
	l := h.logger
	if reqLogger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		l = reqLogger
	}
	l = l.With("component", "hertz")
	if level == hlog.LevelFatal {
		// hertz never exits through the logger
		l = l.With("fatal", true)
	}
	l.Log(ctx, hlogLevels[level], msg)
}

func (h *HertzSlogAdapter) Trace(v ...any) {
	h.log(context.Background(), hlog.LevelTrace, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Debug(v ...any) {
	h.log(context.Background(), hlog.LevelDebug, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Info(v ...any) {
	h.log(context.Background(), hlog.LevelInfo, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Notice(v ...any) {
	h.log(context.Background(), hlog.LevelNotice, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Warn(v ...any) {
	h.log(context.Background(), hlog.LevelWarn, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Error(v ...any) {
	h.log(context.Background(), hlog.LevelError, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Fatal(v ...any) {
	h.log(context.Background(), hlog.LevelFatal, fmt.Sprint(v...))
}

func (h *HertzSlogAdapter) Tracef(format string, v ...any) {
	h.log(context.Background(), hlog.LevelTrace, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Debugf(format string, v ...any) {
	h.log(context.Background(), hlog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Infof(format string, v ...any) {
	h.log(context.Background(), hlog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Noticef(format string, v ...any) {
	h.log(context.Background(), hlog.LevelNotice, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Warnf(format string, v ...any) {
	h.log(context.Background(), hlog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Errorf(format string, v ...any) {
	h.log(context.Background(), hlog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) Fatalf(format string, v ...any) {
	h.log(context.Background(), hlog.LevelFatal, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxTracef(ctx context.Context, format string, v ...any) {
	h.log(ctx, hlog.LevelTrace, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxDebugf(ctx context.Context, format string, v ...any) {
	h.log(ctx, hlog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxInfof(ctx context.Context, format string, v ...any) {
	h.log(ctx, hlog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxNoticef(ctx context.Context, format string, v ...any) {
	h.log(ctx, hlog.LevelNotice, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxWarnf(ctx context.Context, format string, v ...any) {
	h.log(ctx, hlog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxErrorf(ctx context.Context, format string, v ...any) {
	h.log(ctx, hlog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxFatalf(ctx context.Context, format string, v ...any) {
	h.log(ctx, hlog.LevelFatal, fmt.Sprintf(format, v...))
}

// SetLevel is a no-op: the level is fixed by Setup
func (h *HertzSlogAdapter) SetLevel(level hlog.Level) {}

// SetOutput is a no-op: the writer is fixed by Setup
func (h *HertzSlogAdapter) SetOutput(writer io.Writer) {}
