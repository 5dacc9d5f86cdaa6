package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"bizbook/internal/domain"
)

var std = newLogger(os.Stdout)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap:        logrus.FieldMap{logrus.FieldKeyTime: "ts", logrus.FieldKeyMsg: "action"},
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup sets the level and, when file is non-empty, tees output to it.
// The returned closer releases the file.
func Setup(level, file string) (io.Closer, error) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		std.SetLevel(lvl)
	}
	if file == "" {
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nopCloser{}, err
	}
	std.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// SetOutput redirects every entry to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	old := std.Out
	std.SetOutput(w)
	return old
}

// Writer is the current sink, shared with the access logger.
func Writer() io.Writer { return std.Out }

// Logger exposes the process logger for messages outside a request.
func Logger() *logrus.Logger { return std }

func entry(c *fiber.Ctx, fields map[string]any) *logrus.Entry {
	e := logrus.NewEntry(std)
	if len(fields) > 0 {
		e = e.WithField("fields", fields)
	}
	if c == nil {
		return e
	}
	f := logrus.Fields{
		"ip":     c.IP(),
		"method": c.Method(),
		"path":   c.Path(),
		"status": c.Response().StatusCode(),
	}
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		f["req_id"] = rid
	}
	if p, ok := c.Locals("admin").(*domain.Principal); ok && p != nil {
		f["admin"] = p.Username
	}
	return e.WithFields(f)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, fields).WithField("kind", "info").Info(action)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, fields).WithField("kind", "audit").Info(action)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, fields).WithField("kind", "security").Warn(action)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry(c, fields).WithField("kind", "error")
	if err != nil {
		e = e.WithField("err", err.Error())
	}
	e.Error(action)
}
