package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Logger estructurado del servicio: campos base + campos por llamada.
// Un Logger nil es válido y no emite nada (simplifica wiring en tests).
type Logger struct {
	mu     *sync.Mutex
	out    *log.Logger
	level  Level
	format Format
	base   map[string]any
}

type Options struct {
	Level  Level
	Format Format
	App    string
}

func New(opts Options) *Logger {
	base := map[string]any{}
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}
	format := opts.Format
	if format == "" {
		format = FormatText
	}
	return &Logger{
		mu:     &sync.Mutex{},
		out:    log.New(os.Stdout, "", 0),
		level:  opts.Level,
		format: format,
		base:   base,
	}
}

// NewFromEnv lee LOG_LEVEL, LOG_FORMAT y APP_NAME.
func NewFromEnv() *Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

// With devuelve un logger hijo con campos fijos adicionales.
func (l *Logger) With(fields map[string]any) *Logger {
	if l == nil || len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) != "" {
			merged[k] = v
		}
	}
	return &Logger{mu: l.mu, out: l.out, level: l.level, format: l.format, base: merged}
}

func (l *Logger) Debug(msg string, fields map[string]any) { l.log(Debug, msg, fields) }
func (l *Logger) Info(msg string, fields map[string]any)  { l.log(Info, msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.log(Warn, msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.log(Error, msg, fields) }

func (l *Logger) log(lvl Level, msg string, fields map[string]any) {
	if l == nil || lvl < l.level {
		return
	}

	entry := map[string]any{
		"ts":    time.Now().Format(time.RFC3339Nano),
		"level": lvl.String(),
		"msg":   msg,
	}
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) != "" {
			entry[k] = v
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == FormatJSON {
		b, _ := json.Marshal(entry)
		l.out.Println(string(b))
		return
	}
	l.out.Println(formatText(entry))
}

// Keys ordenadas para salida estable (útil en tests).
func formatText(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}
