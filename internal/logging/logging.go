// Package logging builds the process logger and the gin request logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/note-api/internal/constants"
)

const permission = 0o664

// Builder assembles a zerolog.Logger writing to stdout, a buffer, and/or an
// append-only file.
type Builder struct {
	writer io.Writer
	path   string
	level  string
}

// Logger is the built logger together with the file it owns, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

func (b *Builder) FromBuffer(w io.Writer) *Builder {
	b.writer = w
	return b
}

func (b *Builder) WithLevel(level string) *Builder {
	b.level = level
	return b
}

func (b *Builder) Make() (*Logger, error) {
	writers := []io.Writer{}
	if b.writer != nil {
		writers = append(writers, b.writer)
	} else {
		writers = append(writers, os.Stdout)
	}

	l := &Logger{}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, zerolog.SyncWriter(f))
	}

	level, err := zerolog.ParseLevel(b.level)
	if err != nil || b.level == "" {
		level = zerolog.InfoLevel
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return l, nil
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Middleware logs one line per request once the response is written.
func Middleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		userID := "unauth"
		if v, ok := c.Get(constants.ContextKeyUserID); ok {
			if s, ok := v.(string); ok && s != "" {
				userID = s
			}
		}

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("user", userID).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
