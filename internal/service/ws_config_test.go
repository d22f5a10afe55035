package service

import "testing"

func TestWSConfig_WSURL(t *testing.T) {
	testCases := []struct {
		base string
		want string
	}{
		{"", "/ws/room/R1/alice"},
		{"wss://party.example.com", "wss://party.example.com/ws/room/R1/alice"},
		{"wss://party.example.com/", "wss://party.example.com/ws/room/R1/alice"},
	}

	for _, tc := range testCases {
		c := &WSConfig{BaseURL: tc.base}
		if got := c.WSURL("R1", "alice"); got != tc.want {
			t.Errorf("base %q: got %q, want %q", tc.base, got, tc.want)
		}
	}

	var nilCfg *WSConfig
	if got := nilCfg.WSURL("R1", "alice"); got != "/ws/room/R1/alice" {
		t.Errorf("nil config: got %q", got)
	}
}
