package validation

import "strings"

// Verdict is the outcome of judging the current input.
type Verdict int

const (
	Mismatch Verdict = iota
	Match
)

func (v Verdict) String() string {
	if v == Match {
		return "match"
	}
	return "mismatch"
}

// Func judges input synchronously.
type Func func(value string) Verdict

// Compare is strict, case-sensitive equality. No trimming or normalisation.
func Compare(current, target string) Verdict {
	if current == target {
		return Match
	}
	return Mismatch
}

// MatchValue binds an exact-match validator to target.
func MatchValue(target string) Func {
	return func(value string) Verdict {
		return Compare(value, target)
	}
}

// RightProgress reports whether current is on its way to target: empty or a
// prefix of it. It drives the typing hint only, never validity.
func RightProgress(current, target string) bool {
	return current == "" || strings.HasPrefix(target, current)
}
