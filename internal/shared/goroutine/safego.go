// Package goroutine starts background work that must not take the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/ns-ai-search/console/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine and logs a panic with its stack.
func SafeGo(log logger.Interface, name string, fn func()) {
	go run(log, name, fn)
}

func run(log logger.Interface, name string, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		log.Errorw("background task panicked",
			"task", name,
			"panic", fmt.Sprint(r),
			"stack", string(debug.Stack()),
		)
	}()
	fn()
}
