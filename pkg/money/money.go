package money

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
	"gopkg.in/yaml.v3"
)

// precision is the working precision for all amount arithmetic.
// 34 digits matches IEEE 754-2008 decimal128 and is far beyond any
// realistic charge total.
const precision = 34

// Amount is an immutable decimal monetary amount in USD.
// The zero value is zero dollars.
type Amount struct {
	value apd.Decimal
}

// Parse parses a decimal string such as "0.002" or "5" into an Amount.
func Parse(s string) (Amount, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{value: d}, nil
}

// MustParse parses a decimal string and panics on failure.
// Intended for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromInt returns an Amount representing i whole dollars.
func FromInt(i int64) Amount {
	var d apd.Decimal
	d.SetInt64(i)
	return Amount{value: d}
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{}
}

// String returns the canonical decimal representation.
func (a Amount) String() string {
	return a.value.String()
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Sign returns -1, 0, or 1 depending on the sign of the amount.
func (a Amount) Sign() int {
	return a.value.Sign()
}

// Cmp compares a and b, returning -1, 0, or 1.
func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(&b.value)
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(precision)
	ctx.Add(&result, &a.value, &b.value)
	return Amount{value: result}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(precision)
	ctx.Sub(&result, &a.value, &b.value)
	return Amount{value: result}
}

// MulInt returns a * n.
func (a Amount) MulInt(n int64) Amount {
	var factor, result apd.Decimal
	factor.SetInt64(n)
	ctx := apd.BaseContext.WithPrecision(precision)
	ctx.Mul(&result, &a.value, &factor)
	return Amount{value: result}
}

// Float64 returns the nearest float64 representation.
// Only for metrics and display; never used in ledger arithmetic.
func (a Amount) Float64() float64 {
	f, err := a.value.Float64()
	if err != nil {
		return math.NaN()
	}
	return f
}

// FloorDiv returns floor(a / b) as an integer count.
//
// b must be positive. A non-positive a yields 0 rather than a negative
// count, which is the behavior budget math relies on when a ledger is
// already over budget.
func FloorDiv(a, b Amount) (int64, error) {
	if b.Sign() <= 0 {
		return 0, fmt.Errorf("division by non-positive amount %s", b)
	}
	if a.Sign() <= 0 {
		return 0, nil
	}
	var quotient apd.Decimal
	ctx := apd.BaseContext.WithPrecision(precision)
	if _, err := ctx.QuoInteger(&quotient, &a.value, &b.value); err != nil {
		return 0, fmt.Errorf("floor division %s / %s: %w", a, b, err)
	}
	n, err := quotient.Int64()
	if err != nil {
		return 0, fmt.Errorf("floor division result out of range: %w", err)
	}
	return n, nil
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON string ("0.002") or a bare number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = unquoted
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML encodes the amount as a decimal string.
func (a Amount) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML accepts a scalar node, quoted or not.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("amount must be a scalar, got %v", node.Kind)
	}
	parsed, err := Parse(node.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
