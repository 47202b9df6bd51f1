package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09876543210", "+919876543210"},
		{"+91 98765 43210", "+919876543210"},
		{"98765 43210", "+919876543210"},
		{"+44 20 7946 0958", "+442079460958"},
		{"not a number", "not a number"},
		{"  ", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
