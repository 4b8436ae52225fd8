package domain

import (
	"testing"
	"time"
)

func TestSessionLive(t *testing.T) {
	now := time.Now().UTC()
	revoked := now.Add(-time.Minute)

	cases := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil", nil, false},
		{"live", &Session{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", &Session{ExpiresAt: now.Add(-time.Hour)}, false},
		{"revoked", &Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
		{"exactly at expiry", &Session{ExpiresAt: now}, false},
	}
	for _, tc := range cases {
		if got := tc.s.Live(now); got != tc.want {
			t.Errorf("%s: Live = %v, want %v", tc.name, got, tc.want)
		}
	}
}
