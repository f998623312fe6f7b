package reporter

import "sync"

// Handler is the uncaught-panic handler abstraction: the Go rendering of the
// host runtime's hook slot. Exactly one Handler is current at any time;
// Recover routes every captured panic through it.
type Handler func(ev *Event)

var (
	handlerMu sync.Mutex
	handler   Handler = defaultHandler
)

// defaultHandler is current before anything is installed. It re-panics with
// the original value so the runtime prints its usual traceback and
// terminates the program, exactly as if nothing had intervened.
func defaultHandler(ev *Event) {
	panic(ev.Value)
}

// SetHandler swaps in h as the current handler and returns the previous one.
// Passing nil restores the default re-panicking handler. The returned value
// lets a wrapping handler forward to whatever was installed before it.
func SetHandler(h Handler) Handler {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := handler
	if h == nil {
		h = defaultHandler
	}
	handler = h
	return prev
}

func currentHandler() Handler {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	return handler
}

// Recover captures a panic on the calling goroutine and routes it through
// the current handler. Deferred at the top of main it covers the main
// execution path:
//
//	defer reporter.Recover()
//
// Without an installed reporter the default handler re-panics, so deferring
// Recover is behavior-neutral.
func Recover() {
	if v := recover(); v != nil {
		currentHandler()(newEvent(v, 2))
	}
}

// Go spawns fn on a new goroutine with panic capture installed, the analog
// of a thread-spawn hook. Safe to call from any number of goroutines.
func Go(fn func()) {
	go Wrap(fn)()
}

// Wrap returns fn wrapped with panic capture, for callers that manage their
// own goroutines (worker pools, errgroups).
func Wrap(fn func()) func() {
	return func() {
		defer Recover()
		fn()
	}
}
