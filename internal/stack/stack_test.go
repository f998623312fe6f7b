package stack

import (
	"strings"
	"testing"
)

func TestCaptureReturnsFrames(t *testing.T) {
	trace := Capture(0)
	if len(trace) == 0 {
		t.Fatal("Capture returned no frames")
	}
	if !strings.Contains(trace[0].Function, "TestCaptureReturnsFrames") {
		t.Errorf("innermost frame = %q, want the test function", trace[0].Function)
	}
	if trace[0].File == "" || trace[0].Line == 0 {
		t.Errorf("frame missing source location: %+v", trace[0])
	}
}

func TestCaptureSkip(t *testing.T) {
	var trace Trace
	capture := func() {
		// skip=1 drops the capture closure itself
		trace = Capture(1)
	}
	capture()

	if len(trace) == 0 {
		t.Fatal("Capture returned no frames")
	}
	if !strings.Contains(trace[0].Function, "TestCaptureSkip") {
		t.Errorf("innermost frame = %q, want the test function", trace[0].Function)
	}
}

func TestCaptureDropsRuntimeEntryFrames(t *testing.T) {
	for _, f := range Capture(0) {
		if f.Function == "runtime.main" || f.Function == "runtime.goexit" {
			t.Errorf("trace contains runtime entry frame %q", f.Function)
		}
	}
}

func TestTraceString(t *testing.T) {
	trace := Trace{
		{Function: "main.work", File: "/src/app/main.go", Line: 42},
		{Function: "main.main", File: "/src/app/main.go", Line: 10},
	}
	got := trace.String()
	want := "main.work\n\t/src/app/main.go:42\nmain.main\n\t/src/app/main.go:10\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		name  string
		trace Trace
		want  Frame
	}{
		{
			name: "skips runtime and reporter frames",
			trace: Trace{
				{Function: "runtime.gopanic", File: "/go/src/runtime/panic.go", Line: 1},
				{Function: modulePath + ".Recover", File: "/src/reporter/handler.go", Line: 2},
				{Function: "main.work", File: "/src/app/main.go", Line: 42},
				{Function: "main.main", File: "/src/app/main.go", Line: 10},
			},
			want: Frame{Function: "main.work", File: "/src/app/main.go", Line: 42},
		},
		{
			name: "skips reporter subpackage frames",
			trace: Trace{
				{Function: modulePath + "/internal/stack.Capture", File: "/src/reporter/internal/stack/stack.go", Line: 1},
				{Function: "example.com/app.Handle", File: "/src/app/handle.go", Line: 7},
			},
			want: Frame{Function: "example.com/app.Handle", File: "/src/app/handle.go", Line: 7},
		},
		{
			name: "all internal falls back to innermost",
			trace: Trace{
				{Function: "runtime.gopanic", File: "/go/src/runtime/panic.go", Line: 1},
				{Function: modulePath + ".Recover", File: "/src/reporter/handler.go", Line: 2},
			},
			want: Frame{Function: "runtime.gopanic", File: "/go/src/runtime/panic.go", Line: 1},
		},
		{
			name:  "empty trace yields zero frame",
			trace: Trace{},
			want:  Frame{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trace.Origin(); got != tt.want {
				t.Errorf("Origin() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrameString(t *testing.T) {
	f := Frame{Function: "main.work", File: "/src/app/main.go", Line: 42}
	if got := f.String(); got != "main.work\n\t/src/app/main.go:42" {
		t.Errorf("String() = %q", got)
	}
}
