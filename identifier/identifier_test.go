package identifier

import "testing"

func TestNewStableIDCanonicalizes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"User-42", "user-42"},
		{"  AbCdEf  ", "abcdef"},
	}

	for _, tc := range cases {
		got, err := NewStableID(tc.raw)
		if err != nil {
			t.Fatalf("NewStableID(%q): unexpected error: %v", tc.raw, err)
		}
		if got.String() != tc.want {
			t.Errorf("NewStableID(%q) = %q, want %q", tc.raw, got.String(), tc.want)
		}
	}
}

func TestNewStableIDRejectsBlank(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		if _, err := NewStableID(raw); err != ErrBlankStableID {
			t.Errorf("NewStableID(%q) error = %v, want ErrBlankStableID", raw, err)
		}
	}
}

func TestStableIDEqual(t *testing.T) {
	a, _ := NewStableID("User-1")
	b, _ := NewStableID("user-1")
	c, _ := NewStableID("user-2")

	if !a.Equal(b) {
		t.Errorf("expected %q to equal %q", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %q to not equal %q", a, c)
	}
}

func TestNewRampUpRange(t *testing.T) {
	if _, err := NewRampUp(-0.1); err != ErrInvalidRampUp {
		t.Errorf("NewRampUp(-0.1) error = %v, want ErrInvalidRampUp", err)
	}
	if _, err := NewRampUp(100.1); err != ErrInvalidRampUp {
		t.Errorf("NewRampUp(100.1) error = %v, want ErrInvalidRampUp", err)
	}
	if v, err := NewRampUp(0); err != nil || v.Float64() != 0 {
		t.Errorf("NewRampUp(0) = (%v, %v), want (0, nil)", v, err)
	}
	if v, err := NewRampUp(100); err != nil || v.Float64() != 100 {
		t.Errorf("NewRampUp(100) = (%v, %v), want (100, nil)", v, err)
	}
}
