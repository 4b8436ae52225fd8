package domain

import (
	"strings"
	"testing"
)

func TestIdentityValidate(t *testing.T) {
	valid := Identity{
		ID:       "identity-1",
		Username: "alice",
		Status:   StatusActive,
	}

	cases := []struct {
		name    string
		mutate  func(*Identity)
		wantErr bool
	}{
		{"valid active", func(i *Identity) {}, false},
		{"valid disabled", func(i *Identity) { i.Status = StatusDisabled }, false},
		{"missing id", func(i *Identity) { i.ID = " " }, true},
		{"missing username", func(i *Identity) { i.Username = "" }, true},
		{"username too long", func(i *Identity) { i.Username = strings.Repeat("a", 256) }, true},
		{"username at limit", func(i *Identity) { i.Username = strings.Repeat("a", 255) }, false},
		{"unknown status", func(i *Identity) { i.Status = Status("suspended") }, true},
	}
	for _, tc := range cases {
		ident := valid
		tc.mutate(&ident)
		err := ident.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: Validate = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}
