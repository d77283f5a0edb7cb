package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// ConsoleLogHandler is a human-friendly slog handler for running the bot in a
// terminal: colored level, message, then one attr per indented line.
type ConsoleLogHandler struct {
	logger    *log.Logger
	level     slog.Level
	attrs     []slog.Attr
	openGroup string
	lock      *sync.Mutex
}

func NewConsoleLogHandler(out io.Writer, opts *slog.HandlerOptions) *ConsoleLogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	return &ConsoleLogHandler{
		level:  opts.Level.Level(),
		logger: log.New(out, "", 0),
		lock:   &sync.Mutex{},
	}
}

func (h *ConsoleLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	level := r.Level.String() + ":"

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.BlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	timeStr := r.Time.Format("[15:04:05.000]")
	msg := color.CyanString(r.Message)

	h.logger.Println(timeStr, level, msg)

	for _, attr := range h.attrs {
		h.logger.Printf("  %s=%s\n", color.YellowString(h.openGroup+attr.Key), color.WhiteString("%v", attr.Value.Any()))
	}

	r.Attrs(func(a slog.Attr) bool {
		h.logger.Printf("  %s=%s\n", color.YellowString(h.openGroup+a.Key), color.WhiteString("%v", a.Value.Any()))
		return true
	})

	return nil
}

func (h *ConsoleLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ConsoleLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConsoleLogHandler{
		attrs:     append(h.attrs, attrs...),
		logger:    h.logger,
		level:     h.level,
		lock:      h.lock,
		openGroup: h.openGroup,
	}
}

func (h *ConsoleLogHandler) WithGroup(name string) slog.Handler {
	return &ConsoleLogHandler{
		attrs:     h.attrs,
		logger:    h.logger,
		level:     h.level,
		lock:      h.lock,
		openGroup: h.openGroup + name + ".",
	}
}
