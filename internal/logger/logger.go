package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Console logger shared by every package. Verbose enables Debug output
// with timestamps; quiet suppresses everything except errors.

type level int

const (
	levelDebug level = iota
	levelInfo
	levelSuccess
	levelWarn
	levelError
)

const (
	colorGray   = "\033[90m"
	colorBlue   = "\033[34m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

type consoleLogger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	verbose bool
	quiet   bool
	isTTY   bool
}

var (
	std     *consoleLogger
	stdOnce sync.Once
)

func get() *consoleLogger {
	stdOnce.Do(func() {
		std = &consoleLogger{
			out:    os.Stdout,
			errOut: os.Stderr,
			isTTY:  term.IsTerminal(int(os.Stdout.Fd())),
		}
	})
	return std
}

// SetVerbose enables or disables debug output.
func SetVerbose(enabled bool) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = enabled
}

// SetQuiet suppresses everything except errors.
func SetQuiet(enabled bool) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = enabled
}

// SetOutput redirects non-error output, mainly for tests.
func SetOutput(w io.Writer) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func IsVerbose() bool {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

func IsQuiet() bool {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quiet
}

func Debug(format string, args ...any)   { get().log(levelDebug, format, args...) }
func Info(format string, args ...any)    { get().log(levelInfo, format, args...) }
func Success(format string, args ...any) { get().log(levelSuccess, format, args...) }
func Warn(format string, args ...any)    { get().log(levelWarn, format, args...) }
func Error(format string, args ...any)   { get().log(levelError, format, args...) }

func (l *consoleLogger) log(lv level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lv == levelDebug && !l.verbose {
		return
	}
	if l.quiet && lv != levelError {
		return
	}

	out := l.out
	if lv == levelError {
		out = l.errOut
	}

	prefix, color := l.decorate(lv)
	msg := fmt.Sprintf(format, args...)

	if l.isTTY {
		fmt.Fprintf(out, "%s%s %s%s\n", color, prefix, msg, colorReset)
	} else {
		fmt.Fprintf(out, "%s %s\n", prefix, msg)
	}
}

func (l *consoleLogger) decorate(lv level) (string, string) {
	switch lv {
	case levelDebug:
		ts := time.Now().Format("2006-01-02 15:04:05.000")
		return fmt.Sprintf("[%s] DEBUG", ts), colorGray
	case levelSuccess:
		return "SUCCESS", colorGreen
	case levelWarn:
		return "WARN", colorYellow
	case levelError:
		return "ERROR", colorRed
	default:
		return "INFO", colorBlue
	}
}
