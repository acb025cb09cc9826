// Package money provides the fixed-point decimal amount type used for all
// price and charge arithmetic.
//
// # Why not float64
//
// Charge totals are cumulative sums over potentially millions of events.
// Binary floating point drifts under that kind of accumulation, which would
// break the budget-never-exceeded guarantee. Amount wraps an
// arbitrary-precision decimal (cockroachdb/apd) with value semantics and a
// fixed working precision of 34 digits.
//
// # Usage
//
//	price := money.MustParse("0.002")
//	total := price.MulInt(5000)          // exactly 10
//	n := money.FloorDiv(remaining, price) // affordable unit count
//
// Amount is immutable; all operations return a new value. The zero value of
// Amount is zero dollars and is ready to use.
package money
