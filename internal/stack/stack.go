// Package stack captures and formats goroutine call stacks for crash reports.
//
// The capture is frame-based rather than text-based (runtime.Callers instead
// of debug.Stack) so that the originating application frame can be selected
// programmatically for fingerprinting.
package stack

import (
	"fmt"
	"runtime"
	"strings"
)

// modulePath is used to recognize the reporter's own frames so they can be
// excluded when locating the frame an error originated from.
const modulePath = "github.com/M0r13n/go-gitlab-reporter"

// maxDepth is the maximum number of frames captured per trace.
const maxDepth = 64

// Frame is a single resolved call site.
type Frame struct {
	Function string
	File     string
	Line     int
}

// String renders the frame in the runtime traceback style:
//
//	main.doWork
//		/src/app/main.go:42
func (f Frame) String() string {
	return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
}

// Trace is an ordered list of frames, innermost first.
type Trace []Frame

// Capture records the calling goroutine's stack, dropping skip frames in
// addition to Capture itself.
func Capture(skip int) Trace {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	trace := make(Trace, 0, n)
	for {
		fr, more := frames.Next()
		// The runtime entry points at the bottom of every stack carry no
		// information useful in a report.
		if fr.Function != "runtime.main" && fr.Function != "runtime.goexit" {
			trace = append(trace, Frame{
				Function: fr.Function,
				File:     fr.File,
				Line:     fr.Line,
			})
		}
		if !more {
			break
		}
	}
	return trace
}

// String renders the whole trace, one frame per line pair.
func (t Trace) String() string {
	var b strings.Builder
	for _, f := range t {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Origin returns the frame the panic originated from: the innermost frame
// that belongs neither to the runtime nor to the reporter module itself.
// Falls back to the innermost frame when every frame is internal, and to the
// zero Frame for an empty trace.
func (t Trace) Origin() Frame {
	for _, f := range t {
		if !internal(f.Function) {
			return f
		}
	}
	if len(t) > 0 {
		return t[0]
	}
	return Frame{}
}

// internal reports whether a function belongs to the runtime's panic
// machinery or to the reporter module.
func internal(function string) bool {
	if strings.HasPrefix(function, "runtime.") {
		return true
	}
	return strings.HasPrefix(function, modulePath+"/") ||
		strings.HasPrefix(function, modulePath+".")
}
