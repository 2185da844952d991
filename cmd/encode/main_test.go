package main

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"low</w>"}, "low</w>"},
		{[]string{"low", "er</w>", "new", "</w>"}, "low / er</w> | new / </w>"},
	}
	for _, tt := range tests {
		if got := format(tt.in); got != tt.want {
			t.Errorf("format(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
