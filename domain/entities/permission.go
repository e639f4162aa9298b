package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Permission selects the configuration scopes in which an ini value may be
// changed at runtime. Members combine with bitwise OR.
type Permission uint32

// Permission members, matching ZEND_INI_USER, ZEND_INI_PERDIR and ZEND_INI_SYSTEM.
const (
	PermUser   Permission = 1 << 0
	PermPerDir Permission = 1 << 1
	PermSystem Permission = 1 << 2
	PermAll               = PermUser | PermPerDir | PermSystem
)

var permissionNames = []struct {
	perm Permission
	name string
}{
	{PermUser, "USER"},
	{PermPerDir, "PERDIR"},
	{PermSystem, "SYSTEM"},
}

// Union combines permissions.
func Union(perms ...Permission) Permission {
	var p Permission
	for _, perm := range perms {
		p |= perm
	}
	return p
}

// Bits returns the raw bit pattern.
func (p Permission) Bits() uint32 {
	return uint32(p)
}

// Has reports whether every bit of other is set in p.
func (p Permission) Has(other Permission) bool {
	return p&other == other
}

// Valid reports whether p only uses bits of the closed member set.
func (p Permission) Valid() bool {
	return p&^PermAll == 0
}

func (p Permission) String() string {
	switch {
	case p == 0:
		return "NONE"
	case p == PermAll:
		return "ALL"
	}
	var parts []string
	rest := p
	for _, n := range permissionNames {
		if p&n.perm != 0 {
			parts = append(parts, n.name)
			rest &^= n.perm
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParsePermission parses names such as "perdir|system" or "all". Names are
// case-insensitive and may be separated by '|' or ','. A plain integer is
// accepted as raw bits.
func ParsePermission(s string) (Permission, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty permission")
	}
	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		p := Permission(n)
		if !p.Valid() {
			return 0, fmt.Errorf("permission bits 0x%x outside %s", n, PermAll)
		}
		return p, nil
	}

	var p Permission
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "user", "per_user", "peruser":
			p |= PermUser
		case "perdir", "per_dir":
			p |= PermPerDir
		case "system":
			p |= PermSystem
		case "all":
			p |= PermAll
		case "none":
		default:
			return 0, fmt.Errorf("unknown permission %q", part)
		}
	}
	return p, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Permission) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(p.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
