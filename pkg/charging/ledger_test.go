package charging

import (
	"testing"

	"mercator-hq/tollgate/pkg/money"
	"mercator-hq/tollgate/pkg/pricing"
)

func TestLedger_ApplyAccumulates(t *testing.T) {
	l := NewLedger()

	l.Apply("page-scraped", 3, money.MustParse("0.25"))
	l.Apply("page-scraped", 2, money.MustParse("0.25"))
	l.Apply("record-saved", 1, money.MustParse("1.50"))

	if got := l.ChargedCount("page-scraped"); got != 5 {
		t.Errorf("ChargedCount(page-scraped) = %d, want 5", got)
	}
	if got := l.ChargedCount("record-saved"); got != 1 {
		t.Errorf("ChargedCount(record-saved) = %d, want 1", got)
	}
	if got := l.ChargedCount("never-charged"); got != 0 {
		t.Errorf("ChargedCount(never-charged) = %d, want 0", got)
	}

	want := money.MustParse("2.75")
	if l.TotalCharged().Cmp(want) != 0 {
		t.Errorf("TotalCharged = %s, want %s", l.TotalCharged(), want)
	}
}

func TestLedger_SeedRecomputesTotals(t *testing.T) {
	catalog := pricing.FromLocalConfig(map[string]pricing.EventPrice{
		"page-scraped": {Title: "Page scraped", Price: money.MustParse("0.10")},
	}, nil)

	l := NewLedger()
	l.Seed(map[string]int64{
		"page-scraped": 7,
		"unknown":      2,
		"negative":     -3,
		"zero":         0,
	}, catalog)

	if got := l.ChargedCount("page-scraped"); got != 7 {
		t.Errorf("ChargedCount(page-scraped) = %d, want 7", got)
	}
	// Unknown events seed the count but contribute nothing to the total.
	if got := l.ChargedCount("unknown"); got != 2 {
		t.Errorf("ChargedCount(unknown) = %d, want 2", got)
	}
	// Non-positive seed counts are dropped.
	if got := l.ChargedCount("negative"); got != 0 {
		t.Errorf("ChargedCount(negative) = %d, want 0", got)
	}
	if got := l.ChargedCount("zero"); got != 0 {
		t.Errorf("ChargedCount(zero) = %d, want 0", got)
	}

	want := money.MustParse("0.70")
	if l.TotalCharged().Cmp(want) != 0 {
		t.Errorf("TotalCharged = %s, want %s", l.TotalCharged(), want)
	}
}

func TestLedger_CountsAndEntriesAreCopies(t *testing.T) {
	l := NewLedger()
	l.Apply("page-scraped", 1, money.MustParse("1.00"))

	counts := l.Counts()
	counts["page-scraped"] = 99
	if got := l.ChargedCount("page-scraped"); got != 1 {
		t.Errorf("mutating Counts() result changed the ledger: got %d", got)
	}

	entries := l.Entries()
	if entry := entries["page-scraped"]; entry.ChargedCount != 1 {
		t.Errorf("Entries()[page-scraped].ChargedCount = %d, want 1", entry.ChargedCount)
	}
}

func BenchmarkLedger_Apply(b *testing.B) {
	l := NewLedger()
	price := money.MustParse("0.01")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Apply("page-scraped", 1, price)
	}
}
