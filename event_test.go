package reporter

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M0r13n/go-gitlab-reporter/internal/stack"
)

type timeoutError struct{}

func (timeoutError) Error() string { return "deadline exceeded" }

func TestTypeName(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string panic", "boom", "panic"},
		{"stdlib error", errors.New("boom"), "errors.errorString"},
		{"wrapped error", fmt.Errorf("ctx: %w", errors.New("boom")), "fmt.wrapError"},
		{"custom error", timeoutError{}, "reporter.timeoutError"},
		{"integer", 42, "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, typeName(tt.value))
		})
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	ev := func() *Event {
		return &Event{
			Type:    "errors.errorString",
			Message: "Ooopsie",
			Origin:  stack.Frame{Function: "main.work", File: "/src/app/main.go", Line: 42},
		}
	}
	require.Equal(t, ev().Fingerprint(), ev().Fingerprint())
}

func TestFingerprintDistinct(t *testing.T) {
	base := Event{
		Type:    "errors.errorString",
		Message: "Ooopsie",
		Origin:  stack.Frame{File: "/src/app/main.go", Line: 42},
	}

	differentMessage := base
	differentMessage.Message = "other"

	differentType := base
	differentType.Type = "reporter.timeoutError"

	differentSite := base
	differentSite.Origin = stack.Frame{File: "/src/app/main.go", Line: 43}

	fp := base.Fingerprint()
	assert.NotEqual(t, fp, differentMessage.Fingerprint(), "message must affect the fingerprint")
	assert.NotEqual(t, fp, differentType.Fingerprint(), "type must affect the fingerprint")
	assert.NotEqual(t, fp, differentSite.Fingerprint(), "call site must affect the fingerprint")
}

func TestFingerprintIsSingleLine(t *testing.T) {
	ev := Event{
		Type:    "errors.errorString",
		Message: "first line\nsecond line",
		Origin:  stack.Frame{File: "/src/app/main.go", Line: 42},
	}
	fp := ev.Fingerprint()
	assert.NotContains(t, fp, "\n")
	assert.Contains(t, fp, "first line")
	assert.NotContains(t, fp, "second line")
}

func TestFingerprintTruncatesLongMessages(t *testing.T) {
	ev := Event{
		Type:    "panic",
		Message: strings.Repeat("x", 500),
		Origin:  stack.Frame{File: "/a.go", Line: 1},
	}
	assert.Less(t, len(ev.Fingerprint()), 200)
}

func TestFingerprintTruncatesOnRuneBoundary(t *testing.T) {
	// 119 ASCII bytes followed by three-byte runes puts the byte cap in the
	// middle of a rune.
	ev := Event{
		Type:    "panic",
		Message: strings.Repeat("a", maxTitleMessage-1) + strings.Repeat("世", 40),
		Origin:  stack.Frame{File: "/a.go", Line: 1},
	}
	fp := ev.Fingerprint()
	assert.True(t, utf8.ValidString(fp), "titles must stay valid UTF-8")
	assert.Contains(t, fp, strings.Repeat("a", maxTitleMessage-1))
	assert.NotContains(t, fp, "世")
}

func TestNewEventFromPanicValue(t *testing.T) {
	ev := newEvent(errors.New("Ooopsie"), 0)

	require.NotEmpty(t, ev.ID)
	assert.WithinDuration(t, time.Now(), ev.Time, time.Minute)
	assert.Equal(t, "errors.errorString", ev.Type)
	assert.Equal(t, "Ooopsie", ev.Message)
	assert.NotEmpty(t, ev.Trace)
	assert.False(t, ev.self)
}

func TestDescription(t *testing.T) {
	ev := newEvent(errors.New("Ooopsie"), 0)
	lines := strings.Split(ev.description(), "\n")

	assert.Equal(t, "# Uncaught panic 'errors.errorString: Ooopsie'", lines[0])
	assert.Equal(t, "```", lines[2])
	assert.Equal(t, "(*This issue was automatically opened by go-gitlab-reporter*)", lines[len(lines)-1])
	assert.Contains(t, ev.description(), "The error lastly occurred at: **")
}

func TestNoteBody(t *testing.T) {
	ev := newEvent("boom", 0)
	body := ev.noteBody()

	assert.Contains(t, body, "Seen again at **")
	assert.Contains(t, body, "```")
}

func TestSelfOriginated(t *testing.T) {
	assert.False(t, selfOriginated("boom"))
	assert.False(t, selfOriginated(errors.New("boom")))
	assert.True(t, selfOriginated(selfError{errors.New("boom")}))
	assert.True(t, selfOriginated(fmt.Errorf("wrapped: %w", selfError{errors.New("boom")})))
}
