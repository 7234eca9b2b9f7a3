package dice

import "testing"

func TestRollDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 20; i++ {
		ra := a.Roll(5, 4)
		rb := b.Roll(5, 4)
		if ra != rb {
			t.Fatalf("roll %d: got %d and %d from identical seeds", i, ra, rb)
		}
		if ra < 5 || ra > 20 {
			t.Fatalf("5d4 result %d out of range [5,20]", ra)
		}
	}
}

func TestParseDie(t *testing.T) {
	cases := []struct {
		in      string
		wantN   int
		wantM   int
		wantErr bool
	}{
		{"5d4", 5, 4, false},
		{"1d20", 1, 20, false},
		{"8d7", 8, 7, false},
		{"", 0, 0, true},
		{"garbage", 0, 0, true},
		{"5x4", 0, 0, true},
		{"0d4", 0, 0, true},
	}
	for _, c := range cases {
		d, err := ParseDie(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDie(%q): expected error, got %+v", c.in, d)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDie(%q): unexpected error: %v", c.in, err)
			continue
		}
		if d.N != c.wantN || d.M != c.wantM {
			t.Errorf("ParseDie(%q) = %+v, want {%d %d}", c.in, d, c.wantN, c.wantM)
		}
	}
}

func TestRollDieFallback(t *testing.T) {
	r := New(1)
	result, ok := r.RollDie("not-a-die")
	if ok {
		t.Fatalf("expected ok=false for malformed die string")
	}
	if result < 1 || result > 4 {
		t.Fatalf("fallback 1d4 result %d out of range", result)
	}
}
