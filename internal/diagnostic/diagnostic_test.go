package diagnostic

import "testing"

func TestErrorf(t *testing.T) {
	d := Errorf(3, 7, "Symbol %s already defined.", "a")
	if d.Line != 3 || d.Column != 7 {
		t.Fatalf("unexpected position %d:%d", d.Line, d.Column)
	}
	if d.Error() != "Symbol a already defined." {
		t.Fatalf("unexpected message %q", d.Error())
	}
	if d.String() != "3:7: Symbol a already defined." {
		t.Fatalf("unexpected string %q", d.String())
	}
}

func TestDiagnosticsCollection(t *testing.T) {
	d := New()
	if d.HasErrors() {
		t.Fatal("expected empty collection to have no errors")
	}
	d.Errorf(1, 1, "first")
	d.Errorf(2, 1, "second")
	if !d.HasErrors() {
		t.Fatal("expected collection to have errors")
	}
	if got := d.First().Message; got != "first" {
		t.Fatalf("expected first diagnostic 'first', got %q", got)
	}
	if len(d.All()) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(d.All()))
	}
}
