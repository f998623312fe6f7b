// Package reporter intercepts uncaught panics and files them as issues on a
// GitLab-style tracker, deduplicating repeated occurrences of the same error
// into a single tracked issue.
//
// # Overview
//
// Go has no process-wide hook for uncaught panics, so interception works the
// way most Go crash reporters do: a deferred Recover at the top of main
// covers the main execution path, and Go/Wrap cover worker goroutines.
// Init swaps the reporting handler in front of the currently installed
// Handler; the previous handler is captured as an explicit value and is
// always invoked after reporting completes or fails, so the program still
// terminates (or logs) exactly as it would without the reporter.
//
// # Deduplication
//
// Every panic is reduced to a deterministic single-line fingerprint built
// from the panic value's type, its message, and the originating call site.
// The fingerprint is the issue title. On each report the tracker is searched
// for an open issue with that title: if one exists a "seen again" note is
// appended, if a closed one exists it is reopened, and only a genuinely new
// error opens a new issue. The tracker is the sole source of truth; nothing
// is persisted locally.
//
// # Failure policy
//
// Tracker failures (network, auth, anything else) are logged and swallowed,
// never propagated, and never prevent the previous handler from running.
// Panics raised by the reporter's own code are tagged internally and skip
// reporting entirely, so a bug in the reporter cannot recurse.
//
// # Usage
//
//	func main() {
//	    err := reporter.Init(reporter.Config{
//	        BaseURL:   "https://gitlab.example.com",
//	        Token:     os.Getenv("GLREPORTER_TOKEN"),
//	        ProjectID: 42,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer reporter.Recover()
//
//	    reporter.Go(worker) // spawns a goroutine with panic capture
//	    run()
//	}
//
// Concurrent panics from multiple goroutines are safe: each report is
// independent and the only shared state is the read-only configuration.
// In-process races between two first occurrences of the same fingerprint are
// collapsed; the same race across two processes is a known limitation and is
// left to the tracker's own semantics.
package reporter
