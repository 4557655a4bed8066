package earnings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/cedolino/internal/settings"
)

func TestBandAt(t *testing.T) {
	tests := []struct {
		minute int
		want   Band
	}{
		{0, BandNight},
		{5*60 + 59, BandNight},
		{6 * 60, BandDay},
		{19*60 + 59, BandDay},
		{20 * 60, BandEvening},
		{21*60 + 59, BandEvening},
		{22 * 60, BandNight},
		{24*60 + 7*60, BandDay},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandAt(tt.minute), "minute %d", tt.minute)
	}
}

func TestResolveMultiplier(t *testing.T) {
	rates := settings.Defaults().Contract.Overtime

	assert.True(t, ResolveMultiplier(10*60, false, rates).Equal(rates.Day))
	assert.True(t, ResolveMultiplier(21*60, false, rates).Equal(rates.NightUntil22))
	assert.True(t, ResolveMultiplier(23*60, false, rates).Equal(rates.NightAfter22))
	assert.True(t, ResolveMultiplier(10*60, true, rates).Equal(rates.Holiday))
	assert.True(t, ResolveMultiplier(21*60, true, rates).Equal(rates.NightHoliday))
	assert.True(t, ResolveMultiplier(3*60, true, rates).Equal(rates.NightHoliday))
}

func TestSplitAtBands(t *testing.T) {
	got := splitAtBands(span{from: 19 * 60, to: 24*60 + 7*60})
	want := []span{
		{from: 19 * 60, to: 20 * 60},
		{from: 20 * 60, to: 22 * 60},
		{from: 22 * 60, to: 24 * 60},
		{from: 24 * 60, to: 24*60 + 6*60},
		{from: 24*60 + 6*60, to: 24*60 + 7*60},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(span{})); diff != "" {
		t.Errorf("splitAtBands mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, splitAtBands(span{from: 600, to: 600}))
}
