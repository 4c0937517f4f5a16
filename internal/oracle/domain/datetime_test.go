package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func TestParseDateTime_BareLocalTimeGetsZone(t *testing.T) {
	loc := seoul(t)

	parsed, err := domain.ParseDateTime("2026-01-19T13:00:00", loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 19, 13, 0, 0, 0, loc), parsed)
	_, offset := parsed.Zone()
	assert.Equal(t, 9*3600, offset)
}

func TestParseDateTime_PreservesExplicitOffset(t *testing.T) {
	parsed, err := domain.ParseDateTime("2026-01-19T13:00:00+09:00", seoul(t))

	require.NoError(t, err)
	_, offset := parsed.Zone()
	assert.Equal(t, 9*3600, offset)
	assert.True(t, parsed.Equal(time.Date(2026, 1, 19, 4, 0, 0, 0, time.UTC)))
}

func TestParseDateTime_NegativeOffset(t *testing.T) {
	parsed, err := domain.ParseDateTime("2026-01-19T13:00:00-05:00", seoul(t))

	require.NoError(t, err)
	_, offset := parsed.Zone()
	assert.Equal(t, -5*3600, offset)
}

func TestParseDateTime_ZuluSuffix(t *testing.T) {
	parsed, err := domain.ParseDateTime("2026-01-19T04:00:00Z", seoul(t))

	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2026, 1, 19, 4, 0, 0, 0, time.UTC)))
}

func TestParseDateTime_MinutePrecision(t *testing.T) {
	parsed, err := domain.ParseDateTime("2026-01-19T13:00", seoul(t))

	require.NoError(t, err)
	assert.Equal(t, 13, parsed.Hour())
}

func TestParseDateTime_FractionalSeconds(t *testing.T) {
	loc := seoul(t)

	// time.Parse accepts a fractional second after the seconds field even when
	// the layout omits it, for offset-carrying and bare strings alike.
	withOffset, err := domain.ParseDateTime("2026-01-19T09:00:00.5+09:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 500*int(time.Millisecond), withOffset.Nanosecond())

	bare, err := domain.ParseDateTime("2026-01-19T09:00:00.25", loc)
	require.NoError(t, err)
	assert.Equal(t, 250*int(time.Millisecond), bare.Nanosecond())
	_, offset := bare.Zone()
	assert.Equal(t, 9*3600, offset)
}

func TestParseDateTime_MissingSeparatorIsMalformed(t *testing.T) {
	_, err := domain.ParseDateTime("2026-01-19 13:00:00", seoul(t))

	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)
}

func TestParseDateTime_GarbageIsMalformed(t *testing.T) {
	_, err := domain.ParseDateTime("not-a-Timestamp", seoul(t))

	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)
}

func TestFormatDateTime_ExplicitOffsetAlways(t *testing.T) {
	loc := seoul(t)
	moment := time.Date(2026, 1, 19, 4, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-01-19T13:00:00+09:00", domain.FormatDateTime(moment, loc))
	assert.Equal(t, "2026-01-19T04:00:00+00:00", domain.FormatDateTime(moment, time.UTC))
}

func TestFormatDateTime_RoundTripsParse(t *testing.T) {
	loc := seoul(t)
	parsed, err := domain.ParseDateTime("2026-01-19T09:15:00", loc)
	require.NoError(t, err)

	assert.Equal(t, "2026-01-19T09:15:00+09:00", domain.FormatDateTime(parsed, loc))
}

func TestDailyWindow_OnAnchorDay(t *testing.T) {
	loc := seoul(t)
	anchor := time.Date(2026, 1, 19, 15, 42, 0, 0, loc)

	window, err := domain.DailyWindow(anchor, "09:00", "18:00", loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 19, 9, 0, 0, 0, loc), window.Start)
	assert.Equal(t, time.Date(2026, 1, 19, 18, 0, 0, 0, loc), window.End)
}

func TestDailyWindow_CrossMidnightAdvancesEnd(t *testing.T) {
	loc := seoul(t)
	anchor := time.Date(2026, 1, 19, 23, 0, 0, 0, loc)

	window, err := domain.DailyWindow(anchor, "22:00", "06:00", loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 19, 22, 0, 0, 0, loc), window.Start)
	assert.Equal(t, time.Date(2026, 1, 20, 6, 0, 0, 0, loc), window.End)
}

func TestDailyWindow_BadClockIsMalformed(t *testing.T) {
	_, err := domain.DailyWindow(time.Now(), "9am", "18:00", time.UTC)

	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)
}

func TestWeekdayIndex_MondayZero(t *testing.T) {
	monday := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC) // a Monday
	sunday := time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, domain.WeekdayIndex(monday))
	assert.Equal(t, 6, domain.WeekdayIndex(sunday))
}

func TestWeekdayIn(t *testing.T) {
	wednesday := time.Date(2026, 1, 21, 10, 0, 0, 0, time.UTC)

	assert.True(t, domain.WeekdayIn(wednesday, []int{0, 1, 2, 3, 4}))
	assert.False(t, domain.WeekdayIn(wednesday, []int{5, 6}))
}
