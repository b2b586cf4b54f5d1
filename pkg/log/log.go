// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	moveIndent = 4 // spaces to indent move entries
	indexWidth = 9 // width of the "[n/total]" column
)

// 🎯 MoveOperation represents one directive for logging
type MoveOperation struct {
	Index  int    // zero-based position in the batch
	Total  int    // number of directives in the batch
	Source string // source as written in the script
	Target string // target as written in the script
	Err    error  // nil when the move succeeded
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	moved   int
	failed  int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// Console is the writer operator output goes to.
func (l *Logger) Console() io.Writer {
	return l.console
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatMove formats a move for display
func (l *Logger) formatMove(op MoveOperation) string {
	symbol, symbolColor := '✓', color.FgGreen
	if op.Err != nil {
		symbol, symbolColor = '✗', color.FgRed
	}

	line := fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", moveIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", indexWidth, fmt.Sprintf("[%d/%d]", op.Index+1, op.Total))),
		op.Source,
		color.New(color.FgCyan).Sprint("→"),
		op.Target)

	if op.Err != nil {
		line += "\n" + fmt.Sprintf("%*s", moveIndent+2, "") + color.New(color.FgRed).Sprint(op.Err.Error())
	}
	return line
}

// 📝 LogMove logs the outcome of one move
func (l *Logger) LogMove(ctx context.Context, op MoveOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if op.Err != nil {
		l.failed++
	} else {
		l.moved++
	}

	fmt.Fprintln(l.console, l.formatMove(op))

	event := l.zlog.Info()
	if op.Err != nil {
		event = l.zlog.Warn().Err(op.Err)
	}
	event.
		Int("index", op.Index).
		Str("source", op.Source).
		Str("target", op.Target).
		Msg("move")
}

// Counts returns how many moves were logged as succeeded and failed.
func (l *Logger) Counts() (moved, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.moved, l.failed
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	moverText := color.New(color.Bold, color.FgCyan).Sprint("mover")
	fmt.Fprintf(l.console, "\n%s %s\n\n", moverText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
