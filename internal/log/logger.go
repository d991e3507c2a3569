package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// PrettyFormatter formats log entries in a human-readable way for terminal output.
type PrettyFormatter struct {
	// NoColor disables ANSI escapes, for output redirected to a file.
	NoColor bool
}

// Format renders a logrus entry as a pretty, human-readable line.
func (f *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	paint := func(color, s string) string {
		if f.NoColor {
			return s
		}
		return color + s + colorReset
	}

	var icon, color string
	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		icon, color = "✗", colorRed
	case logrus.WarnLevel:
		icon, color = "⚠", colorYellow
	case logrus.InfoLevel:
		icon, color = "•", colorGreen
	default:
		icon, color = "·", colorGray
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(paint(colorGray, entry.Time.Format("15:04:05")))
	b.WriteByte(' ')
	b.WriteString(paint(color, icon))
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", paint(colorCyan, k), entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// NewLogger creates a configured logrus logger writing to stderr,
// leaving stdout free for exported documents.
func NewLogger(level string, format string) *logrus.Logger {
	logger := logrus.New()
	Configure(logger, os.Stderr, level, format)
	return logger
}

// Configure sets output, format, and level on an existing logger.
func Configure(logger *logrus.Logger, out io.Writer, level string, format string) {
	if out != nil {
		logger.SetOutput(out)
	}
	setFormatter(logger, format)
	setLevel(logger, level)
}

func setFormatter(logger *logrus.Logger, format string) {
	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "pretty":
		logger.SetFormatter(&PrettyFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
}

func setLevel(logger *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}
