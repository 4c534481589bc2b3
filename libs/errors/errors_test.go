package errors

import "testing"

func TestTraceCause(t *testing.T) {
	base := New("boom")
	traced := Trace(base)
	if traced == nil {
		t.Fatal("Trace returned nil for non-nil error")
	}
	if Cause(traced) != base {
		t.Fatalf("Cause did not return the original error: %v", Cause(traced))
	}
	// Double tracing keeps the same cause
	if Cause(Trace(traced)) != base {
		t.Fatal("Cause lost after double Trace")
	}
	if Trace(nil) != nil {
		t.Fatal("Trace(nil) should be nil")
	}
}

func TestAnnotate(t *testing.T) {
	if err := Annotate(nil, "context"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	err := Annotate(New("failure"), "while testing")
	as := Annotations(err)
	if len(as) != 1 || as[0] != "while testing" {
		t.Fatalf("unexpected annotations %v", as)
	}
	err = Annotatef(err, "attempt %d", 2)
	as = Annotations(err)
	if len(as) != 2 || as[1] != "attempt 2" {
		t.Fatalf("unexpected annotations %v", as)
	}
}
