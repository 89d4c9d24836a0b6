// Package logsvc provides core.Logger implementations.
package logsvc

import (
	"log"

	"github.com/presencehq/presence/core"
)

// ConsoleLogger writes to a standard logger only. Used in DEV and in tests
// where Rollbar would be noise.
type ConsoleLogger struct {
	std *log.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger) *ConsoleLogger {
	return &ConsoleLogger{std: std}
}

func (l ConsoleLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("[%s] %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) { l.print("DBG", msg, args) }
func (l ConsoleLogger) Info(msg string, args ...interface{})  { l.print("INF", msg, args) }
func (l ConsoleLogger) Warn(msg string, args ...interface{})  { l.print("WRN", msg, args) }
func (l ConsoleLogger) Error(msg string, args ...interface{}) { l.print("ERR", msg, args) }
