package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyMembership(t *testing.T) {
	policy := NewPolicy(
		[]string{"USD", "eur", " GBP "},
		[]string{"mxn"},
	)

	// Checks are case-insensitive
	assert.True(t, policy.IsAllowed("usd"))
	assert.True(t, policy.IsAllowed("EUR"))
	assert.True(t, policy.IsAllowed("gbp"))
	assert.False(t, policy.IsAllowed("JPY"))

	assert.True(t, policy.IsBlocked("MXN"))
	assert.True(t, policy.IsBlocked("mxn"))
	assert.False(t, policy.IsBlocked("USD"))
}

func TestPolicyIsUsable(t *testing.T) {
	policy := NewPolicy([]string{"USD", "EUR", "MXN"}, []string{"MXN"})

	// Usable means allowed and not blocked
	assert.True(t, policy.IsUsable("USD"))
	assert.False(t, policy.IsUsable("MXN"))
	assert.False(t, policy.IsUsable("JPY"))
}

func TestPolicyFilterBlocked(t *testing.T) {
	policy := NewPolicy([]string{"USD", "EUR", "MXN"}, []string{"MXN", "THB"})

	filtered := policy.FilterBlocked(map[string]float64{
		"EUR": 0.9,
		"MXN": 17.1,
		"THB": 35.4,
		"GBP": 0.78,
	})

	assert.Equal(t, map[string]float64{"EUR": 0.9, "GBP": 0.78}, filtered)

	// Filtering everything away is a valid, non-error outcome
	empty := policy.FilterBlocked(map[string]float64{"MXN": 17.1})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.Nil(t, policy.FilterBlocked(nil))
}
