package currency

import (
	"strings"
)

// Policy holds the allow-list and block-list of currency codes. Both checks
// are case-insensitive. The policy is loaded once at startup and read-only
// afterwards, so it is safe for concurrent use without locking.
type Policy struct {
	allowed map[string]struct{}
	blocked map[string]struct{}
}

// NewPolicy builds a policy from the configured code lists.
func NewPolicy(allowed, blocked []string) *Policy {
	p := &Policy{
		allowed: make(map[string]struct{}, len(allowed)),
		blocked: make(map[string]struct{}, len(blocked)),
	}
	for _, code := range allowed {
		p.allowed[normalize(code)] = struct{}{}
	}
	for _, code := range blocked {
		p.blocked[normalize(code)] = struct{}{}
	}
	return p
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsAllowed reports whether the code is on the allow-list.
func (p *Policy) IsAllowed(code string) bool {
	_, ok := p.allowed[normalize(code)]
	return ok
}

// IsBlocked reports whether the code is on the block-list.
func (p *Policy) IsBlocked(code string) bool {
	_, ok := p.blocked[normalize(code)]
	return ok
}

// IsUsable reports whether the code may appear in request input: it has to
// be allowed and not blocked.
func (p *Policy) IsUsable(code string) bool {
	return p.IsAllowed(code) && !p.IsBlocked(code)
}

// FilterBlocked returns a copy of rates without any blocked currency code.
// Only the block check applies on the output path; an empty result is valid.
func (p *Policy) FilterBlocked(rates map[string]float64) map[string]float64 {
	if rates == nil {
		return nil
	}
	filtered := make(map[string]float64, len(rates))
	for code, rate := range rates {
		if p.IsBlocked(code) {
			continue
		}
		filtered[code] = rate
	}
	return filtered
}
