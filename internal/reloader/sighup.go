// Package reloader triggers config reloads on SIGHUP.
package reloader

import (
	"os"
	"os/signal"
	"syscall"
)

// OnSIGHUP runs fn on every SIGHUP until the returned stop function is
// called.
func OnSIGHUP(fn func()) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	go func() {
		for range ch {
			fn()
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
