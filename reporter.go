package reporter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/M0r13n/go-gitlab-reporter/internal/gitlab"
	"github.com/M0r13n/go-gitlab-reporter/internal/metrics"
)

// IssueLabel is attached to every issue the reporter opens, so auto-filed
// crashes can be listed and triaged separately from human-filed issues.
const IssueLabel = "crash-report"

// Reporter owns the report-and-forward flow: fingerprint the panic, find or
// create the tracked issue, then hand the event to the previous handler.
// All fields are set once at install time and read-only afterwards, so the
// flow is safe to invoke concurrently from any number of goroutines.
type Reporter struct {
	cfg     Config
	client  *gitlab.Client
	limiter *rate.Limiter
	group   singleflight.Group
	prev    Handler
	log     *log.Logger
}

var (
	installMu sync.Mutex
	active    *Reporter
)

// Init validates cfg, installs the reporting handler in front of the current
// Handler, and keeps the previous handler so it can be invoked after every
// report. It also registers the outcome counters with the default Prometheus
// registry. Init is idempotent: a second call changes nothing and returns
// ErrAlreadyInstalled, which callers may ignore.
func Init(cfg Config) error {
	installMu.Lock()
	defer installMu.Unlock()

	if active != nil {
		return ErrAlreadyInstalled
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("reporter: invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := &Reporter{
		cfg:     cfg,
		client:  gitlab.NewClient(cfg.BaseURL, cfg.Token, cfg.ProjectID, cfg.RequestTimeout),
		limiter: rate.NewLimiter(rate.Limit(cfg.ReportsPerMinute/60.0), cfg.Burst),
		log:     logger,
	}
	metrics.Register()
	r.prev = SetHandler(r.handle)
	active = r
	return nil
}

// Uninstall removes the reporting handler and restores the one captured at
// Init time. A no-op when nothing is installed.
func Uninstall() {
	installMu.Lock()
	defer installMu.Unlock()
	if active == nil {
		return
	}
	SetHandler(active.prev)
	active = nil
}

// Capture reports v as if it were an uncaught panic, without touching the
// handler chain. Unlike the hook path it returns the tracked issue's web URL
// and the report error, which makes it usable for manual reporting and
// end-to-end testing.
func Capture(v any) (string, error) {
	installMu.Lock()
	r := active
	installMu.Unlock()
	if r == nil {
		return "", ErrNotInstalled
	}
	// Skip Capture itself so the trace starts at the caller, matching what
	// Recover produces for a real panic.
	return r.report(newEvent(v, 1))
}

// handle is the installed Handler. It reports non-self events (swallowing
// every failure) and then always invokes the previous handler, so program
// termination behavior is unchanged.
func (r *Reporter) handle(ev *Event) {
	if ev.self {
		r.log.Printf("[REPORTER] skipping self-originated panic: %s", ev.Message)
		metrics.Observe(metrics.OutcomeSkipped)
	} else if _, err := r.report(ev); err != nil {
		r.logFailure(err)
	}
	r.prev(ev)
}

// report runs the dedupe-and-file flow for one event and returns the web URL
// of the affected issue. It never panics: its own failures are recovered,
// tagged as self-originated, and returned as an error for the caller to log.
func (r *Reporter) report(ev *Event) (webURL string, err error) {
	defer func() {
		if v := recover(); v != nil {
			metrics.Observe(metrics.OutcomeFailed)
			webURL, err = "", selfError{fmt.Errorf("panic during reporting: %v", v)}
		}
	}()

	if !r.limiter.Allow() {
		metrics.Observe(metrics.OutcomeDropped)
		return "", ErrRateLimited
	}

	fp := ev.Fingerprint()

	// Concurrent occurrences of the same fingerprint collapse into one
	// tracker round-trip. This keeps two goroutines from racing to create
	// the same new issue in-process; the same race across processes is
	// accepted as best-effort.
	v, err, _ := r.group.Do(fp, func() (any, error) {
		return r.createOrNote(context.Background(), ev, fp)
	})
	if err != nil {
		metrics.Observe(metrics.OutcomeFailed)
		return "", err
	}
	return v.(string), nil
}

// createOrNote enforces the dedupe invariant: at most one open issue per
// fingerprint. A matching open issue gets a recurrence note, a matching
// closed issue is reopened and noted, and only a new fingerprint opens a new
// issue.
func (r *Reporter) createOrNote(ctx context.Context, ev *Event, fp string) (string, error) {
	open, err := r.client.SearchIssues(ctx, fp, gitlab.StateOpened)
	if err != nil {
		return "", fmt.Errorf("search open issues: %w", err)
	}
	if len(open) > 0 {
		if _, err := r.client.AddNote(ctx, open[0].IID, ev.noteBody()); err != nil {
			return "", err
		}
		metrics.Observe(metrics.OutcomeNoted)
		r.log.Printf("[REPORTER] noted recurrence on issue #%d: %s", open[0].IID, fp)
		return open[0].WebURL, nil
	}

	closed, err := r.client.SearchIssues(ctx, fp, gitlab.StateClosed)
	if err != nil {
		return "", fmt.Errorf("search closed issues: %w", err)
	}
	if len(closed) > 0 {
		if _, err := r.client.ReopenIssue(ctx, closed[0].IID); err != nil {
			return "", err
		}
		if _, err := r.client.AddNote(ctx, closed[0].IID, ev.noteBody()); err != nil {
			return "", err
		}
		metrics.Observe(metrics.OutcomeReopened)
		r.log.Printf("[REPORTER] reopened issue #%d: %s", closed[0].IID, fp)
		return closed[0].WebURL, nil
	}

	issue, err := r.client.CreateIssue(ctx, gitlab.CreateIssueOptions{
		Title:       fp,
		Description: ev.description(),
		AssigneeID:  r.cfg.AssigneeID,
		Labels:      []string{IssueLabel},
	})
	if err != nil {
		return "", err
	}
	metrics.Observe(metrics.OutcomeCreated)
	r.log.Printf("[REPORTER] opened issue #%d: %s", issue.IID, fp)
	return issue.WebURL, nil
}

// logFailure classifies a swallowed report error for the log line.
func (r *Reporter) logFailure(err error) {
	switch {
	case errors.Is(err, ErrRateLimited):
		r.log.Printf("[REPORTER] %v", err)
	case errors.Is(err, gitlab.ErrAuth):
		r.log.Printf("[REPORTER] tracker rejected credentials: %v", err)
	case errors.Is(err, gitlab.ErrNetwork):
		r.log.Printf("[REPORTER] tracker unreachable: %v", err)
	default:
		r.log.Printf("[REPORTER] report failed: %v", err)
	}
}
