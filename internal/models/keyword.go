package models

import "context"

// Outcome is the normalised result of an asynchronous keyword check.
type Outcome struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
}

// Predicate judges typed input asynchronously. It must honour ctx: a
// superseded check has its context cancelled.
type Predicate func(ctx context.Context, input string) (Outcome, error)

// BoolPredicate adapts a check that only reports a bare boolean.
func BoolPredicate(fn func(ctx context.Context, input string) (bool, error)) Predicate {
	return func(ctx context.Context, input string) (Outcome, error) {
		ok, err := fn(ctx, input)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Success: ok}, nil
	}
}

// Keyword is what a modal confirms against: a literal string typed verbatim
// or a predicate. The zero value is an empty literal, which triggers
// generate a random keyword for.
type Keyword struct {
	Literal   string
	Predicate Predicate
}

func Literal(s string) Keyword {
	return Keyword{Literal: s}
}

func Async(p Predicate) Keyword {
	return Keyword{Predicate: p}
}

// IsAsync reports whether the keyword is checked by a predicate.
func (k Keyword) IsAsync() bool {
	return k.Predicate != nil
}

// IsEmpty reports a literal keyword with no text.
func (k Keyword) IsEmpty() bool {
	return k.Predicate == nil && k.Literal == ""
}
