package charging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/tollgate/pkg/audit"
	"mercator-hq/tollgate/pkg/money"
	"mercator-hq/tollgate/pkg/platform"
	"mercator-hq/tollgate/pkg/pricing"
	"mercator-hq/tollgate/pkg/statestore"
)

// nominalLocalPrice is assigned to events unknown to the catalog in local
// simulation, so local testing can exercise budget exhaustion for events
// not yet declared. On the managed platform unknown events stay at price
// zero: the platform only bills catalog events.
var nominalLocalPrice = money.MustParse("1")

// LocalPricing enables pay-per-event simulation on a developer machine.
// Setting it on a managed platform run is a fatal configuration error.
type LocalPricing struct {
	// Events is the simulated catalog.
	Events map[string]pricing.EventPrice
}

// Options configures an Engine. The engine takes all collaborators by
// explicit injection; there is no ambient singleton to recover it from.
type Options struct {
	// RunID identifies the run. Required for managed runs; resolved
	// from the environment (or generated) for local runs when empty.
	RunID string

	// Managed is true when the process executes under platform
	// management. See platform.IsManagedRun.
	Managed bool

	// Metadata fetches the run pricing record. Required when Managed.
	Metadata platform.MetadataClient

	// Reporter receives committed charges. Required when Managed.
	Reporter platform.ChargeReporter

	// Local enables local pay-per-event simulation. Must be nil when
	// Managed.
	Local *LocalPricing

	// MaxTotalChargeUSD is the locally configured spend cap. On managed
	// runs the platform's cap, when present, takes precedence. Nil
	// means unbounded.
	MaxTotalChargeUSD *money.Amount

	// OpenAudit opens the local audit log. Called at most once, on the
	// first local charge. Nil disables auditing.
	OpenAudit func(ctx context.Context) (audit.Log, error)

	// PurgeAuditOnStart clears this run's audit entries when the log is
	// first opened.
	PurgeAuditOnStart bool

	// States persists charged counts for local resume. Optional and
	// ignored on managed runs, where the platform is the source of
	// truth. The caller owns the backend's lifecycle.
	States statestore.Backend

	// Metrics records Prometheus metrics. Optional.
	Metrics *Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Engine is the charging decision engine for one run.
//
// All methods are safe for concurrent use. Construct with NewEngine, then
// Enter before the first charging operation and Exit when the run ends.
type Engine struct {
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	entered bool
	exited  bool
	runID   string
	catalog *pricing.Catalog
	ledger  *Ledger

	notMeteredOnce sync.Once

	auditOnce sync.Once
	auditLog  audit.Log
}

// NewEngine creates an engine from the given options. Validation happens
// in Enter.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:   opts,
		logger: logger.With("component", "charging.engine"),
	}
}

// Enter validates configuration, builds the pricing catalog, and seeds the
// ledger from previously charged counts. It must complete before any
// charging operation. Calling Enter on an already-entered engine is a
// no-op.
func (e *Engine) Enter(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.exited {
		return NewUsageError("enter", ErrExited)
	}
	if e.entered {
		return nil
	}

	if e.opts.Managed && e.opts.Local != nil {
		return NewConfigError("", ErrLocalSimulationOnPlatform)
	}

	runID := e.opts.RunID
	if e.opts.Managed {
		if runID == "" {
			return NewConfigError("", ErrMissingRunID)
		}
		if e.opts.Metadata == nil {
			return NewConfigError("managed run requires a metadata client", nil)
		}
		if e.opts.Reporter == nil {
			return NewConfigError("managed run requires a charge reporter", nil)
		}
	} else if runID == "" {
		runID = platform.ResolveRunID()
	}

	var (
		catalog *pricing.Catalog
		seed    map[string]int64
	)
	switch {
	case e.opts.Managed:
		rp, err := e.opts.Metadata.RunPricing(ctx, runID)
		if err != nil {
			return NewConfigError("failed to fetch run pricing", err)
		}
		catalog = pricing.FromRunPricing(rp, e.opts.MaxTotalChargeUSD)
		if rp != nil {
			seed = rp.ChargedEventCounts
		}

	case e.opts.Local != nil:
		catalog = pricing.FromLocalConfig(e.opts.Local.Events, e.opts.MaxTotalChargeUSD)
		if e.opts.States != nil {
			counts, err := e.opts.States.LoadCounts(ctx, runID)
			if err != nil {
				return NewConfigError("failed to load persisted charge counts", err)
			}
			seed = counts
		}

	default:
		catalog = pricing.NotMetered()
	}

	ledger := NewLedger()
	if catalog.IsPerEvent() {
		ledger.Seed(seed, catalog)
	}

	e.runID = runID
	e.catalog = catalog
	e.ledger = ledger
	e.entered = true

	e.logger.Info("charging engine entered",
		"run_id", runID,
		"mode", catalog.Mode(),
		"seeded_events", len(seed),
		"total_charged", ledger.TotalCharged().String(),
	)
	e.updateBudgetUsageLocked()

	return nil
}

// Exit ends the engine's lifecycle. It persists a final count snapshot for
// local runs and closes the audit log if one was opened. Exit is
// idempotent; it releases no external resources beyond those.
func (e *Engine) Exit(ctx context.Context) error {
	e.mu.Lock()
	if e.exited {
		e.mu.Unlock()
		return nil
	}
	e.exited = true

	var counts map[string]int64
	if e.entered && !e.opts.Managed && e.opts.States != nil && e.catalog.IsPerEvent() {
		counts = e.ledger.Counts()
	}
	runID := e.runID
	auditLog := e.auditLog
	e.mu.Unlock()

	if counts != nil {
		if err := e.opts.States.SaveCounts(ctx, runID, counts); err != nil {
			e.logger.Error("failed to persist final charge counts", "error", err)
		}
	}
	if auditLog != nil {
		if err := auditLog.Close(); err != nil {
			e.logger.Error("failed to close audit log", "error", err)
		}
	}

	e.logger.Info("charging engine exited", "run_id", runID)
	return nil
}

// Charge attempts to charge count occurrences of the named event.
//
// A count of zero is a legal no-op: it never reports anything externally
// and never mutates the ledger. When the remaining budget affords fewer
// than count occurrences, the charge is truncated and the Result carries
// the accepted count with LimitReached set. Budget exhaustion is never an
// error.
func (e *Engine) Charge(ctx context.Context, eventName string, count int64) (Result, error) {
	start := time.Now()

	if count < 0 {
		return Result{}, NewUsageError("charge", ErrNegativeCount)
	}

	// Decision and commit happen under one mutex hold with no I/O, so
	// two concurrent calls can never both see the same remaining budget.
	e.mu.Lock()

	if err := e.readyLocked("charge"); err != nil {
		e.mu.Unlock()
		return Result{}, err
	}

	if !e.catalog.IsPerEvent() {
		e.mu.Unlock()
		e.notMeteredOnce.Do(func() {
			e.logger.Warn("charge requested but run is not metered per event; all charges are no-ops",
				"event_name", eventName,
			)
		})
		res := Result{EventName: eventName, AffordableCounts: map[string]int64{}}
		if e.opts.Metrics != nil {
			e.opts.Metrics.RecordCharge(eventName, outcomeNotMetered, 0, 0)
			e.opts.Metrics.RecordChargeDuration(time.Since(start).Seconds())
		}
		return res, nil
	}

	price, known := e.resolvePriceLocked(eventName)

	affordable := e.affordableLocked(price)
	accepted := count
	if affordable != UnlimitedCount && affordable < accepted {
		accepted = affordable
	}

	if accepted > 0 {
		e.ledger.Apply(eventName, accepted, price)
	}

	limitReached := e.affordableLocked(price) == 0

	res := Result{
		EventName:        eventName,
		ChargedCount:     accepted,
		LimitReached:     limitReached,
		AffordableCounts: e.affordableCountsLocked(),
	}

	var counts map[string]int64
	if accepted > 0 && !e.opts.Managed && e.opts.States != nil {
		counts = e.ledger.Counts()
	}
	runID := e.runID
	e.updateBudgetUsageLocked()
	e.mu.Unlock()

	// Side effects below may block freely; the accounting decision is
	// already committed and is never rolled back.
	if accepted > 0 {
		if e.opts.Managed {
			e.reportCharge(ctx, runID, eventName, accepted, known)
		} else if e.opts.OpenAudit != nil {
			e.appendAudit(ctx, runID, eventName, price, accepted)
		}
		if counts != nil {
			if err := e.opts.States.SaveCounts(ctx, runID, counts); err != nil {
				e.logger.Error("failed to persist charge counts", "error", err)
			}
		}
	}

	if accepted < count {
		e.logger.Info("charge truncated by remaining budget",
			"event_name", eventName,
			"requested", count,
			"charged", accepted,
		)
	}

	if e.opts.Metrics != nil {
		outcome := outcomeAccepted
		switch {
		case count == 0:
			outcome = outcomeNoop
		case accepted == 0:
			outcome = outcomeRejected
		case accepted < count:
			outcome = outcomeTruncated
		}
		e.opts.Metrics.RecordCharge(eventName, outcome, accepted, price.Float64()*float64(accepted))
		e.opts.Metrics.RecordChargeDuration(time.Since(start).Seconds())
	}

	return res, nil
}

// ChargedCount returns the committed count for an event, 0 for events
// never charged.
func (e *Engine) ChargedCount(eventName string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.readyLocked("charged_count"); err != nil {
		return 0, err
	}
	return e.ledger.ChargedCount(eventName), nil
}

// PricingInfo returns the run's pricing without mutating any state.
func (e *Engine) PricingInfo() (Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.readyLocked("pricing_info"); err != nil {
		return Info{}, err
	}

	info := Info{
		Mode:           e.catalog.Mode(),
		IsPerEvent:     e.catalog.IsPerEvent(),
		PerEventPrices: e.catalog.Events(),
	}
	if max, bounded := e.catalog.MaxTotalCharge(); bounded {
		capCopy := max
		info.MaxTotalChargeUSD = &capCopy
	}
	return info, nil
}

// LedgerSnapshot returns a copy of the committed ledger state.
func (e *Engine) LedgerSnapshot() (map[string]LedgerEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.readyLocked("ledger_snapshot"); err != nil {
		return nil, err
	}
	return e.ledger.Entries(), nil
}

// RunID returns the effective run ID after Enter.
func (e *Engine) RunID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runID
}

// readyLocked verifies the engine lifecycle state. Caller holds mu.
func (e *Engine) readyLocked(op string) error {
	if e.exited {
		return NewUsageError(op, ErrExited)
	}
	if !e.entered {
		return NewUsageError(op, ErrNotEntered)
	}
	return nil
}

// resolvePriceLocked returns the unit price for an event and whether the
// event is in the catalog. Caller holds mu.
func (e *Engine) resolvePriceLocked(eventName string) (money.Amount, bool) {
	if ep, ok := e.catalog.Price(eventName); ok {
		return ep.Price, true
	}
	if e.catalog.IsLocalTest() {
		return nominalLocalPrice, false
	}
	return money.Zero(), false
}

// affordableLocked returns how many occurrences at the given unit price
// the remaining budget affords. A ledger already at or past the budget
// floors at zero rather than going negative. Caller holds mu.
func (e *Engine) affordableLocked(unitPrice money.Amount) int64 {
	max, bounded := e.catalog.MaxTotalCharge()
	if !bounded || unitPrice.Sign() <= 0 {
		return UnlimitedCount
	}
	remaining := max.Sub(e.ledger.TotalCharged())
	n, err := money.FloorDiv(remaining, unitPrice)
	if err != nil {
		// Unreachable with a positive price; fail closed.
		e.logger.Error("affordability computation failed", "error", err)
		return 0
	}
	return n
}

// affordableCountsLocked recomputes the affordable count for every catalog
// event. Caller holds mu.
func (e *Engine) affordableCountsLocked() map[string]int64 {
	events := e.catalog.Events()
	counts := make(map[string]int64, len(events))
	for name, ep := range events {
		counts[name] = e.affordableLocked(ep.Price)
	}
	return counts
}

// updateBudgetUsageLocked pushes the budget usage ratio metric.
// Caller holds mu.
func (e *Engine) updateBudgetUsageLocked() {
	if e.opts.Metrics == nil || e.catalog == nil {
		return
	}
	max, bounded := e.catalog.MaxTotalCharge()
	if !bounded || max.Sign() <= 0 {
		return
	}
	e.opts.Metrics.UpdateBudgetUsage(e.ledger.TotalCharged().Float64() / max.Float64())
}

// reportCharge informs the platform of a committed charge. Events outside
// the catalog are never reported: the platform only accepts catalog
// events, and their fallback price is zero, so nothing was billed.
func (e *Engine) reportCharge(ctx context.Context, runID, eventName string, count int64, known bool) {
	if !known {
		e.logger.Warn("charged event is not in the pricing catalog; charge kept locally but not reported",
			"event_name", eventName,
			"count", count,
		)
		return
	}

	if err := e.opts.Reporter.ReportCharge(ctx, runID, eventName, count); err != nil {
		// The ledger mutation stands: the budget guarantee is
		// local-first even when the platform never acknowledges.
		e.logger.Error("failed to report charge to platform",
			"event_name", eventName,
			"count", count,
			"error", err,
		)
		if e.opts.Metrics != nil {
			e.opts.Metrics.RecordReportFailure(eventName)
		}
	}
}

// appendAudit records a local charge, opening the audit log on first use.
func (e *Engine) appendAudit(ctx context.Context, runID, eventName string, price money.Amount, count int64) {
	e.auditOnce.Do(func() {
		log, err := e.opts.OpenAudit(ctx)
		if err != nil {
			e.logger.Error("failed to open local audit log; local charges will not be recorded", "error", err)
			return
		}
		if e.opts.PurgeAuditOnStart {
			if err := log.Purge(ctx, runID); err != nil {
				e.logger.Error("failed to purge audit log at start", "error", err)
			}
		}
		e.mu.Lock()
		e.auditLog = log
		e.mu.Unlock()
	})

	e.mu.Lock()
	log := e.auditLog
	e.mu.Unlock()
	if log == nil {
		return
	}

	title := eventName
	if ep, ok := e.catalog.Price(eventName); ok && ep.Title != "" {
		title = ep.Title
	}

	entry := audit.Entry{
		RunID:        runID,
		EventName:    eventName,
		Title:        title,
		UnitPrice:    price,
		ChargedCount: count,
		ChargedAt:    time.Now().UTC(),
	}
	if err := log.Append(ctx, entry); err != nil {
		e.logger.Error("failed to append audit entry", "error", err)
	}
}
