package settings_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/cedolino/internal/settings"
)

func TestDefaults(t *testing.T) {
	s := settings.Defaults()

	assert.True(t, s.Contract.DailyRate.Equal(decimal.RequireFromString("109.19")))
	assert.True(t, s.Meals.Lunch.Equal(decimal.RequireFromString("5.29")))
	assert.Equal(t, settings.TravelProportionalCCNL, s.Travel.Policy)
	assert.Equal(t, settings.AllowanceFull, s.Travel.AllowanceReduction)
	assert.Equal(t, settings.NetIRPEF, s.Net.Method)
	assert.False(t, s.Standby.SaturdayAsRest)
	require.NoError(t, s.Validate())
}

func TestParsePartialDocument(t *testing.T) {
	s, err := settings.Parse([]byte(`
contract:
  daily_rate: 120.50
standby:
  saturday_as_rest: true
`))
	require.NoError(t, err)

	assert.True(t, s.Contract.DailyRate.Equal(decimal.RequireFromString("120.50")))
	// Missing sections fall back to defaults.
	assert.True(t, s.Contract.HourlyRate.Equal(settings.DefaultHourlyRate))
	assert.True(t, s.Standby.DailyIndemnity.Equal(settings.DefaultStandbyDailyIndemnity))
	assert.True(t, s.Standby.SaturdayAsRest)
	assert.Equal(t, settings.TravelProportionalCCNL, s.Travel.Policy)
}

func TestParseKeepsExplicitZero(t *testing.T) {
	s, err := settings.Parse([]byte(`
travel:
  rate: 0
standby:
  daily_indemnity: 0
meals:
  lunch: 0
`))
	require.NoError(t, err)

	assert.True(t, s.Travel.Rate.IsZero())
	assert.True(t, s.Standby.DailyIndemnity.IsZero())
	assert.True(t, s.Meals.Lunch.IsZero())
	assert.True(t, s.Meals.Dinner.Equal(settings.DefaultMealVoucher))
	assert.True(t, s.Standby.FestiveIndemnity.Equal(settings.DefaultStandbyFestiveIndemnity))
}

func TestParseRejectsZeroDailyRate(t *testing.T) {
	_, err := settings.Parse([]byte("contract:\n  daily_rate: 0\n"))
	assert.ErrorIs(t, err, settings.ErrInvalidSettings)
}

func TestParseUnknownTravelPolicy(t *testing.T) {
	_, err := settings.Parse([]byte("travel:\n  policy: half_and_proportional\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, settings.ErrUnknownTravelPolicy))
}

func TestParseUnknownNetMethod(t *testing.T) {
	_, err := settings.Parse([]byte("net:\n  method: flat\n"))
	assert.ErrorIs(t, err, settings.ErrUnknownNetMethod)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name string
		edit func(*settings.Settings)
		want string
	}{
		{
			name: "negative daily rate",
			edit: func(s *settings.Settings) { s.Contract.DailyRate = decimal.NewFromInt(-1) },
			want: "contract.daily_rate must be greater than 0",
		},
		{
			name: "multiplier below base",
			edit: func(s *settings.Settings) { s.Contract.Overtime.Day = decimal.RequireFromString("0.5") },
			want: "contract.overtime.day must be at least 1",
		},
		{
			name: "deduction rate above one",
			edit: func(s *settings.Settings) { s.Net.CustomDeductionRate = decimal.RequireFromString("1.5") },
			want: "net.custom_deduction_rate must be at most 1",
		},
		{
			name: "malformed holiday",
			edit: func(s *settings.Settings) { s.Holidays = []string{"21/04/2025"} },
			want: "must be a date in YYYY-MM-DD format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Defaults()
			tt.edit(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, settings.ErrInvalidSettings)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStoreFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settings.FileName)
	store := settings.NewStore(path)

	s, err := store.Load()
	require.NoError(t, err)
	assert.True(t, s.Contract.DailyRate.Equal(settings.DefaultDailyRate))

	_, err = os.Stat(path)
	require.NoError(t, err, "settings file should be created on first run")

	again, err := store.Load()
	require.NoError(t, err)
	assert.True(t, again.Contract.DailyRate.Equal(s.Contract.DailyRate))
	assert.Equal(t, s.Travel.Policy, again.Travel.Policy)
	assert.True(t, again.Travel.FixedAmount.Equal(settings.DefaultTravelFixedAmount))
}

func TestStoreUpdate(t *testing.T) {
	store := settings.NewStore(filepath.Join(t.TempDir(), settings.FileName))

	updated, err := store.Update(func(s *settings.Settings) error {
		s.Travel.Policy = settings.TravelHourly
		s.Holidays = append(s.Holidays, "2025-04-21")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, settings.TravelHourly, updated.Travel.Policy)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings.TravelHourly, loaded.Travel.Policy)
	assert.Equal(t, []string{"2025-04-21"}, loaded.Holidays)

	_, err = store.Update(func(s *settings.Settings) error {
		s.Travel.Policy = "both"
		return nil
	})
	assert.ErrorIs(t, err, settings.ErrUnknownTravelPolicy)

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings.TravelHourly, loaded.Travel.Policy, "failed update must not be written")
}

func TestStoreUpdateKeepsZeroAmount(t *testing.T) {
	store := settings.NewStore(filepath.Join(t.TempDir(), settings.FileName))

	_, err := store.Update(func(s *settings.Settings) error {
		s.Meals.Lunch = decimal.Zero
		return nil
	})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Meals.Lunch.IsZero(), "zero lunch voucher must survive a reload, got %s", loaded.Meals.Lunch)
}

func TestCalendar(t *testing.T) {
	s := settings.Defaults()
	s.Holidays = []string{"2025-04-21"}

	cal, err := s.Calendar(2025)
	require.NoError(t, err)
	assert.Contains(t, cal.Dates(), "2025-04-21")
	assert.Contains(t, cal.Dates(), "2025-12-25")
}
