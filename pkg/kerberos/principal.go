package kerberos

import (
	"fmt"
	"regexp"
	"strings"
)

// principalPattern matches principals of the form name[/instance][@REALM]
var principalPattern = regexp.MustCompile(`^([^ /@]+)(?:/([^ /@]+))?(?:@(.+)?)?$`)

// DeconstructedPrincipal is a Kerberos principal split into its components
type DeconstructedPrincipal struct {
	PrimaryName string
	Instance    string
	Realm       string
}

// DeconstructPrincipal parses a Kerberos principal string. When the principal
// carries no realm, defaultRealm is used to fill in the Realm component; it
// has no effect on the extracted principal name.
func DeconstructPrincipal(principal, defaultRealm string) (*DeconstructedPrincipal, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return nil, fmt.Errorf("the principal to deconstruct may not be empty")
	}

	match := principalPattern.FindStringSubmatch(principal)
	if match == nil {
		return nil, fmt.Errorf("invalid principal value: %q", principal)
	}

	realm := match[3]
	if realm == "" {
		realm = defaultRealm
	}

	return &DeconstructedPrincipal{
		PrimaryName: match[1],
		Instance:    match[2],
		Realm:       realm,
	}, nil
}

// PrincipalName returns the principal without its realm: name[/instance]
func (p *DeconstructedPrincipal) PrincipalName() string {
	if p.Instance == "" {
		return p.PrimaryName
	}
	return p.PrimaryName + "/" + p.Instance
}

// Normalized returns the full principal with the realm applied
func (p *DeconstructedPrincipal) Normalized() string {
	return p.PrincipalName() + "@" + p.Realm
}
