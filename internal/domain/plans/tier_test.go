package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"free", TierFree, true},
		{"starter", TierStarter, true},
		{"pro", TierPro, true},
		{"elite", TierElite, true},
		{" Pro ", TierPro, true},
		{"ELITE", TierElite, true},
		{"premium", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseTier(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestIsPaidTier(t *testing.T) {
	assert.False(t, IsPaidTier(TierFree))
	assert.False(t, IsPaidTier(""))
	assert.True(t, IsPaidTier(TierStarter))
	assert.True(t, IsPaidTier(TierPro))
	assert.True(t, IsPaidTier(TierElite))
}

func TestStaticCatalog(t *testing.T) {
	catalog := StaticCatalog{
		"price_starter": "starter",
		"price_pro":     "Pro",
		"price_bogus":   "platinum",
	}

	tier, ok := catalog.TierForPrice("price_starter")
	assert.True(t, ok)
	assert.Equal(t, TierStarter, tier)

	// labels normalize on the way out
	tier, ok = catalog.TierForPrice("price_pro")
	assert.True(t, ok)
	assert.Equal(t, TierPro, tier)

	// mapped price with an unparseable tier is treated as unknown
	_, ok = catalog.TierForPrice("price_bogus")
	assert.False(t, ok)

	_, ok = catalog.TierForPrice("price_unknown")
	assert.False(t, ok)
}
