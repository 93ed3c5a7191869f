package lazy_test

import (
	"testing"

	"github.com/reoring/schemac/internal/lazy"
)

func TestValue_ComputesOnce(t *testing.T) {
	calls := 0
	v := lazy.New(func() int { calls++; return 42 })
	if v.Done() {
		t.Fatalf("expected value to be pending before Get")
	}
	for i := 0; i < 3; i++ {
		if got := v.Get(); got != 42 {
			t.Fatalf("got %d, want 42", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one computation, got %d", calls)
	}
}

func TestValue_ReentrantGetReturnsZero(t *testing.T) {
	var v *lazy.Value[[]string]
	var inner []string
	v = lazy.New(func() []string {
		inner = v.Get()
		return []string{"outer"}
	})
	got := v.Get()
	if inner != nil {
		t.Fatalf("expected re-entrant Get to see zero value, got %v", inner)
	}
	if len(got) != 1 || got[0] != "outer" {
		t.Fatalf("unexpected result %v", got)
	}
}
