package kerberos

import (
	"testing"
)

func TestDeconstructPrincipal(t *testing.T) {
	tests := []struct {
		name          string
		principal     string
		defaultRealm  string
		wantPrimary   string
		wantInstance  string
		wantRealm     string
		wantPrincipal string
	}{
		{
			name:          "primary only",
			principal:     "zeppelin",
			defaultRealm:  "EXAMPLE.COM",
			wantPrimary:   "zeppelin",
			wantRealm:     "EXAMPLE.COM",
			wantPrincipal: "zeppelin",
		},
		{
			name:          "primary with realm",
			principal:     "zeppelin@PROD.LOCAL",
			defaultRealm:  "EXAMPLE.COM",
			wantPrimary:   "zeppelin",
			wantRealm:     "PROD.LOCAL",
			wantPrincipal: "zeppelin",
		},
		{
			name:          "primary with instance and realm",
			principal:     "zeppelin/host1.example.com@PROD.LOCAL",
			defaultRealm:  "EXAMPLE.COM",
			wantPrimary:   "zeppelin",
			wantInstance:  "host1.example.com",
			wantRealm:     "PROD.LOCAL",
			wantPrincipal: "zeppelin/host1.example.com",
		},
		{
			name:          "trailing at sign falls back to default realm",
			principal:     "zeppelin@",
			defaultRealm:  "EXAMPLE.COM",
			wantPrimary:   "zeppelin",
			wantRealm:     "EXAMPLE.COM",
			wantPrincipal: "zeppelin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeconstructPrincipal(tt.principal, tt.defaultRealm)
			if err != nil {
				t.Fatalf("DeconstructPrincipal(%q) returned error: %v", tt.principal, err)
			}
			if got.PrimaryName != tt.wantPrimary {
				t.Errorf("PrimaryName = %q, want %q", got.PrimaryName, tt.wantPrimary)
			}
			if got.Instance != tt.wantInstance {
				t.Errorf("Instance = %q, want %q", got.Instance, tt.wantInstance)
			}
			if got.Realm != tt.wantRealm {
				t.Errorf("Realm = %q, want %q", got.Realm, tt.wantRealm)
			}
			if got.PrincipalName() != tt.wantPrincipal {
				t.Errorf("PrincipalName() = %q, want %q", got.PrincipalName(), tt.wantPrincipal)
			}
		})
	}
}

func TestDeconstructPrincipalInvalid(t *testing.T) {
	tests := []struct {
		name      string
		principal string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"doubled slash", "zeppelin//host@REALM"},
		{"embedded space", "zeppelin user@REALM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DeconstructPrincipal(tt.principal, "EXAMPLE.COM"); err == nil {
				t.Errorf("DeconstructPrincipal(%q) expected error, got nil", tt.principal)
			}
		})
	}
}

func TestNormalized(t *testing.T) {
	p, err := DeconstructPrincipal("zeppelin/host1", "EXAMPLE.COM")
	if err != nil {
		t.Fatalf("DeconstructPrincipal returned error: %v", err)
	}
	if got := p.Normalized(); got != "zeppelin/host1@EXAMPLE.COM" {
		t.Errorf("Normalized() = %q, want %q", got, "zeppelin/host1@EXAMPLE.COM")
	}
}
