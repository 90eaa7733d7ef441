package service_test

import (
	"testing"

	"github.com/msomdec/jobboard/internal/service"
)

func TestOriginIPv4(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"127.0.0.1", ""},
		{"::1", ""},
		{"", ""},
		{"2001:db8::1", ""},
		{"203.0.113.5", "203.0.113.5"},
		{"203.0.113.5, 10.0.0.1", "203.0.113.5"},
		{"::ffff:198.51.100.2", "198.51.100.2"},
		{"for=192.0.2.60;proto=http", "192.0.2.60"},
		{"999.1.1.1", "999.1.1.1"},
		{"1.2.3", ""},
	}
	for _, tc := range tests {
		if got := service.OriginIPv4(tc.raw); got != tc.want {
			t.Errorf("OriginIPv4(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
