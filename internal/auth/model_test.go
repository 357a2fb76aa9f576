package auth

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolveRoles(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		want      []Role
	}{
		{"nil input defaults to user", nil, []Role{RoleUser}},
		{"empty input defaults to user", []string{}, []Role{RoleUser}},
		{"admin uppercase", []string{"ADMIN"}, []Role{RoleAdmin}},
		{"admin lowercase", []string{"admin"}, []Role{RoleAdmin}},
		{"admin mixed case", []string{"Admin"}, []Role{RoleAdmin}},
		{"unknown string falls back to user", []string{"bogus"}, []Role{RoleUser}},
		{"admin plus unknown", []string{"admin", "bogus"}, []Role{RoleUser, RoleAdmin}},
		{"duplicates collapse", []string{"admin", "ADMIN", "admin"}, []Role{RoleAdmin}},
		{"user plus admin", []string{"user", "admin"}, []Role{RoleUser, RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRoles(tt.requested)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveRoles(%v) = %v, want %v", tt.requested, got, tt.want)
			}
			if len(got) == 0 {
				t.Error("resolved role set must never be empty")
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("USER"); !ok || r != RoleUser {
		t.Errorf("ParseRole(USER) = %v, %v", r, ok)
	}
	if r, ok := ParseRole("ADMIN"); !ok || r != RoleAdmin {
		t.Errorf("ParseRole(ADMIN) = %v, %v", r, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Error("ParseRole should not accept lowercase stored names")
	}
	if _, ok := ParseRole("SUPERUSER"); ok {
		t.Error("ParseRole should reject unknown names")
	}
}

func TestPrincipalHasRole(t *testing.T) {
	p := &Principal{Roles: []Role{RoleUser}}
	if !p.HasRole(RoleUser) {
		t.Error("expected principal to hold USER")
	}
	if p.HasRole(RoleAdmin) {
		t.Error("did not expect principal to hold ADMIN")
	}
}

func TestRegisterInputValidate(t *testing.T) {
	valid := RegisterInput{
		Email:     "a@x.com",
		Password:  "secret1",
		FirstName: "A",
		LastName:  "B",
	}
	if reason := valid.Validate(); reason != "" {
		t.Fatalf("expected valid input, got %q", reason)
	}

	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"blank email", func(in *RegisterInput) { in.Email = "   " }},
		{"overlong email", func(in *RegisterInput) {
			in.Email = strings.Repeat("a", 45) + "@long.com"
		}},
		{"not an email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }},
		{"long password", func(in *RegisterInput) { in.Password = strings.Repeat("x", 41) }},
		{"blank first name", func(in *RegisterInput) { in.FirstName = "" }},
		{"overlong first name", func(in *RegisterInput) { in.FirstName = strings.Repeat("a", 21) }},
		{"blank last name", func(in *RegisterInput) { in.LastName = " " }},
		{"overlong last name", func(in *RegisterInput) { in.LastName = strings.Repeat("b", 21) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if reason := in.Validate(); reason == "" {
				t.Errorf("expected validation failure for %s", tt.name)
			}
		})
	}
}
