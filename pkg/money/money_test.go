package money

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"0.002", "0.002"},
		{"5", "5"},
		{"10.00", "10.00"},
		{"-1.5", "-1.5"},
	}

	for _, tc := range cases {
		a, err := Parse(tc.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tc.input, err)
			continue
		}
		if a.String() != tc.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tc.input, a.String(), tc.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2.3", "$5"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", input)
		}
	}
}

func TestAmount_ZeroValue(t *testing.T) {
	var a Amount
	if !a.IsZero() {
		t.Error("zero value Amount should be zero")
	}
	if a.Sign() != 0 {
		t.Errorf("zero value Sign() = %d, want 0", a.Sign())
	}
}

func TestAmount_AddSub(t *testing.T) {
	a := MustParse("0.1")
	b := MustParse("0.2")

	sum := a.Add(b)
	if sum.Cmp(MustParse("0.3")) != 0 {
		t.Errorf("0.1 + 0.2 = %s, want 0.3", sum)
	}

	diff := sum.Sub(b)
	if diff.Cmp(a) != 0 {
		t.Errorf("0.3 - 0.2 = %s, want 0.1", diff)
	}
}

func TestAmount_CumulativeAddExact(t *testing.T) {
	// The reason this package exists: repeated decimal addition must not
	// drift the way float64 accumulation does.
	price := MustParse("0.001")
	total := Zero()
	for i := 0; i < 10000; i++ {
		total = total.Add(price)
	}
	if total.Cmp(FromInt(10)) != 0 {
		t.Errorf("10000 * 0.001 accumulated to %s, want 10", total)
	}
}

func TestAmount_MulInt(t *testing.T) {
	price := MustParse("0.002")
	total := price.MulInt(5000)
	if total.Cmp(FromInt(10)) != 0 {
		t.Errorf("0.002 * 5000 = %s, want 10", total)
	}
}

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, b string
		want int64
	}{
		{"3.00", "1.00", 3},
		{"3.00", "2.00", 1},
		{"2.999", "1.00", 2},
		{"0", "1.00", 0},
		{"-5.00", "1.00", 0}, // overdrawn budgets floor at zero
		{"10", "0.002", 5000},
	}

	for _, tc := range cases {
		got, err := FloorDiv(MustParse(tc.a), MustParse(tc.b))
		if err != nil {
			t.Errorf("FloorDiv(%s, %s) returned error: %v", tc.a, tc.b, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FloorDiv(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFloorDiv_NonPositiveDivisor(t *testing.T) {
	if _, err := FloorDiv(FromInt(1), Zero()); err == nil {
		t.Error("FloorDiv by zero expected error")
	}
	if _, err := FloorDiv(FromInt(1), MustParse("-0.5")); err == nil {
		t.Error("FloorDiv by negative amount expected error")
	}
}

func TestAmount_JSONRoundTrip(t *testing.T) {
	a := MustParse("0.002")

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"0.002"` {
		t.Errorf("Marshal = %s, want %q", data, `"0.002"`)
	}

	var back Amount
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Cmp(a) != 0 {
		t.Errorf("round trip = %s, want %s", back, a)
	}

	// Bare numbers are accepted too.
	if err := json.Unmarshal([]byte("1.5"), &back); err != nil {
		t.Fatalf("Unmarshal bare number failed: %v", err)
	}
	if back.Cmp(MustParse("1.5")) != 0 {
		t.Errorf("bare number = %s, want 1.5", back)
	}
}

func TestAmount_YAMLUnmarshal(t *testing.T) {
	var doc struct {
		Price Amount `yaml:"price"`
	}
	if err := yaml.Unmarshal([]byte("price: 0.002\n"), &doc); err != nil {
		t.Fatalf("yaml unmarshal failed: %v", err)
	}
	if doc.Price.Cmp(MustParse("0.002")) != 0 {
		t.Errorf("yaml price = %s, want 0.002", doc.Price)
	}

	if err := yaml.Unmarshal([]byte(`price: "5.00"`), &doc); err != nil {
		t.Fatalf("yaml quoted unmarshal failed: %v", err)
	}
	if doc.Price.Cmp(FromInt(5)) != 0 {
		t.Errorf("yaml quoted price = %s, want 5", doc.Price)
	}
}
