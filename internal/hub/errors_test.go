package hub

import (
	"errors"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{tooBusyError{limit: 1}, IsTooBusy},
		{ErrInvalidKey("empty"), IsInvalidKey},
		{rootNotAllowedError{root: "x"}, IsRootNotAllowed},
		{drainingError{}, IsDraining},
	}
	for _, c := range cases {
		if !c.pred(c.err) {
			t.Fatalf("predicate did not match %T", c.err)
		}
		if c.pred(errors.New(c.err.Error())) {
			t.Fatalf("predicate matched a plain error for %T", c.err)
		}
		if c.err.Error() == "" {
			t.Fatalf("empty message for %T", c.err)
		}
	}
	if got := rejectReason(errors.New("x")); got != "other" {
		t.Fatalf("rejectReason fallback = %q", got)
	}
}
