package harness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// AssertionError describes one failed expectation.
type AssertionError struct {
	Where    string // e.g. "checks[2] readiness(risk)"
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Where, e.Expected, e.Actual)
}

// assertError compares an operation's error against the expected graph
// error code. An empty expected code means the operation must succeed.
func assertError(where, expected string, err error) error {
	switch {
	case err == nil && expected == "":
		return nil
	case err == nil:
		return &AssertionError{Where: where, Expected: "error " + expected, Actual: "success"}
	case expected == "":
		return &AssertionError{Where: where, Expected: "success", Actual: fmt.Sprintf("error %v", err)}
	}

	code := string(graph.CodeOf(err))
	if code != expected {
		return &AssertionError{Where: where, Expected: "error " + expected, Actual: fmt.Sprintf("error %s (%v)", code, err)}
	}
	return nil
}

// assertClose checks a single value within tolerance.
func assertClose(where string, expected, actual, tolerance float64) error {
	if math.Abs(expected-actual) <= tolerance {
		return nil
	}
	return &AssertionError{
		Where:    where,
		Expected: fmt.Sprintf("%g ± %g", expected, tolerance),
		Actual:   fmt.Sprintf("%g", actual),
	}
}

// assertSubset checks every expected key against actual (subset semantics).
// Keys are compared after normalization.
func assertSubset(where string, expected, actual map[string]float64, tolerance float64) []error {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		key := graph.NormalizeKey(k)
		got, ok := actual[key]
		if !ok {
			errs = append(errs, &AssertionError{
				Where:    fmt.Sprintf("%s[%s]", where, key),
				Expected: fmt.Sprintf("%g", expected[k]),
				Actual:   "no value",
			})
			continue
		}
		if err := assertClose(fmt.Sprintf("%s[%s]", where, key), expected[k], got, tolerance); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// assertExactOrder checks an order key for key.
func assertExactOrder(where string, expected, actual []string) error {
	want := normalizeKeys(expected)
	if strings.Join(want, ",") == strings.Join(actual, ",") {
		return nil
	}
	return &AssertionError{
		Where:    where,
		Expected: "[" + strings.Join(want, " ") + "]",
		Actual:   "[" + strings.Join(actual, " ") + "]",
	}
}

// assertBefore checks that each pair's first key precedes its second.
// Keys need not be adjacent.
func assertBefore(where string, pairs [][]string, actual []string) []error {
	position := make(map[string]int, len(actual))
	for i, k := range actual {
		position[k] = i
	}

	var errs []error
	for _, pair := range pairs {
		first, second := graph.NormalizeKey(pair[0]), graph.NormalizeKey(pair[1])
		pf, okFirst := position[first]
		ps, okSecond := position[second]
		switch {
		case !okFirst || !okSecond:
			errs = append(errs, &AssertionError{
				Where:    where,
				Expected: fmt.Sprintf("%s before %s", first, second),
				Actual:   "key missing from order",
			})
		case pf >= ps:
			errs = append(errs, &AssertionError{
				Where:    where,
				Expected: fmt.Sprintf("%s before %s", first, second),
				Actual:   fmt.Sprintf("%s at %d, %s at %d", first, pf+1, second, ps+1),
			})
		}
	}
	return errs
}

// assertDescending checks that impacts strictly decrease along keys and
// stay positive. Missing keys count as zero.
func assertDescending(where string, keys []string, impacts map[string]float64) error {
	want := normalizeKeys(keys)
	for i, k := range want {
		v := impacts[k]
		if v <= 0 {
			return &AssertionError{Where: where, Expected: fmt.Sprintf("%s > 0", k), Actual: fmt.Sprintf("%g", v)}
		}
		if i > 0 && impacts[want[i-1]] <= v {
			return &AssertionError{
				Where:    where,
				Expected: fmt.Sprintf("%s > %s", want[i-1], k),
				Actual:   fmt.Sprintf("%g <= %g", impacts[want[i-1]], v),
			}
		}
	}
	return nil
}

func normalizeKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = graph.NormalizeKey(k)
	}
	return out
}
