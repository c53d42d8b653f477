package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1000.50", "1000.5", true},
		{" 2.50 ", "2.5", true},
		{"1e3", "1000", true},
		{"0.01", "0.01", true},
		{"-1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"1e18", "1000000000000000000", true},
		{"1e19", "", false},
		{"1e2000000000", "", false},
		{"1e-19", "", false},
		{"123456789012345678901234567890", "123456789012345678901234567890", true},
		{"1234567890123456789012345678901", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || FormatAmount(got) != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}
