// Package charging implements the pay-per-event charge engine.
//
// # Overview
//
// The Engine decides, for a running unit of work billed per event, how
// many occurrences of a named event may be charged against a finite
// budget, and records the outcome. It keeps a ledger of committed charges
// that is seeded from previously reported counts, so a migrated or
// restarted process resumes accounting exactly where it left off.
//
// Two charging paths exist: explicit charges via Engine.Charge, and the
// implicit synthetic charge applied when items are pushed to the run's
// default output collection (see CalculatePushLimit and package output).
//
// # Concurrency
//
// The affordability decision and the ledger mutation happen under a single
// mutex hold with no I/O inside it, so concurrent callers can never both
// observe the same remaining budget and jointly overdraw it. The external
// report call and the audit append happen after the commit; they are
// causally ordered behind the accounting decision but not atomic with it.
// If a report fails, the ledger is not rolled back — the budget guarantee
// is local-first.
//
// # Errors
//
// Budget exhaustion is never an error: callers get ChargedCount and
// LimitReached in the Result and are expected to stop producing chargeable
// work. Errors are reserved for fatal misconfiguration (ConfigError) and
// API misuse (UsageError); the two are distinguishable with errors.As and
// the package sentinels with errors.Is.
//
// # Usage
//
//	engine := charging.NewEngine(charging.Options{
//	    RunID:    runID,
//	    Managed:  true,
//	    Metadata: client,
//	    Reporter: client,
//	})
//	if err := engine.Enter(ctx); err != nil {
//	    return err
//	}
//	defer engine.Exit(ctx)
//
//	result, err := engine.Charge(ctx, "page-scraped", 1)
//	if err != nil {
//	    return err
//	}
//	if result.LimitReached {
//	    // stop producing chargeable work
//	}
package charging
