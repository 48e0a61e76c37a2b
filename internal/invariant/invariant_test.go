package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aledsdavies/scrut/internal/invariant"
)

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
}

func TestPreconditionFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false precondition")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "PRECONDITION VIOLATION") {
			t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
		}
	}()
	invariant.Precondition(false, "data must not be empty")
}

func TestInvariantFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false invariant")
		}
		if !strings.Contains(fmt.Sprintf("%v", r), "INVARIANT VIOLATION") {
			t.Errorf("unexpected message: %v", r)
		}
	}()
	invariant.Invariant(false, "cursor must advance")
}

func TestNotNilFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for nil value")
		}
	}()
	var ptr *string
	invariant.NotNil(ptr, "rule")
}

func TestNotNilPass(t *testing.T) {
	s := "x"
	invariant.NotNil(&s, "rule")
	invariant.NotNil([]int{1}, "slice")
}
