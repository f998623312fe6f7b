package reporter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/M0r13n/go-gitlab-reporter/internal/stack"
)

// maxTitleMessage caps how much of the panic message ends up in the issue
// title. GitLab truncates long titles anyway; the hash keeps them unique.
const maxTitleMessage = 120

// Event is a single captured panic. Events are created transiently per
// occurrence and never persisted locally; the tracker is the sole source of
// truth for whether an error has been seen before.
type Event struct {
	// ID uniquely identifies this occurrence.
	ID string

	// Time is when the panic was captured.
	Time time.Time

	// Type is the Go type name of the panic value ("panic" for plain
	// string panics).
	Type string

	// Message is the panic value rendered as text.
	Message string

	// Value is the original panic value. The default handler re-panics
	// with it so runtime termination behavior is preserved.
	Value any

	// Trace is the captured call stack, innermost frame first.
	Trace stack.Trace

	// Origin is the application frame the panic originated from.
	Origin stack.Frame

	// self marks panics raised by the reporter's own code. Self events
	// are never reported, only forwarded.
	self bool
}

// newEvent converts a recovered panic value into an Event. skip is the
// number of stack frames above newEvent to drop from the trace.
func newEvent(v any, skip int) *Event {
	trace := stack.Capture(skip + 1)
	return &Event{
		ID:      uuid.New().String(),
		Time:    time.Now(),
		Type:    typeName(v),
		Message: fmt.Sprintf("%v", v),
		Value:   v,
		Trace:   trace,
		Origin:  trace.Origin(),
		self:    selfOriginated(v),
	}
}

// typeName names the panic value for fingerprinting. Errors and arbitrary
// values use their Go type; bare string panics collapse to "panic" since the
// string itself is the message.
func typeName(v any) string {
	if _, ok := v.(string); ok {
		return "panic"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
}

// Fingerprint returns the deterministic single-line identity of this error:
// stable across repeated occurrences of the same panic at the same call
// site, distinct otherwise. Used verbatim as the issue title.
func (e *Event) Fingerprint() string {
	h := xxhash.New()
	_, _ = h.WriteString(e.Type)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(e.Message)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(fmt.Sprintf("%s:%d", e.Origin.File, e.Origin.Line))
	digest := fmt.Sprintf("%08x", uint32(h.Sum64()))

	msg := strings.SplitN(e.Message, "\n", 2)[0]
	if len(msg) > maxTitleMessage {
		// Back off to a rune boundary so the title stays valid UTF-8.
		cut := maxTitleMessage
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return fmt.Sprintf("%s: %s [%s]", e.Type, msg, digest)
}

// description renders the markdown body for a newly created issue.
func (e *Event) description() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Uncaught panic '%s: %s'\n\n", e.Type, e.Message)
	b.WriteString("```\n")
	b.WriteString(e.Trace.String())
	b.WriteString("```\n")
	fmt.Fprintf(&b, "The error lastly occurred at: **%s**\n", e.Time.Format(time.RFC3339))
	b.WriteString("\n\n\n(*This issue was automatically opened by go-gitlab-reporter*)")
	return b.String()
}

// noteBody renders the markdown body for a recurrence note on an existing
// issue.
func (e *Event) noteBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seen again at **%s**.\n\n", e.Time.Format(time.RFC3339))
	b.WriteString("```\n")
	b.WriteString(e.Trace.String())
	b.WriteString("```\n")
	return b.String()
}
