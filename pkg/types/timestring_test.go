package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, ts.Minutes())
	assert.Equal(t, "09:30", ts.String())

	_, err = NewTimeStringFromString("9.30")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("23:30")

	end, err := start.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, "24:00", end.String())

	_, err = start.AddMinutes(31)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Comparisons(t *testing.T) {
	a := MustTimeString("10:00")
	b := MustTimeString("10:30")

	assert.True(t, a.IsBefore(b))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.Equal(t, 30, a.MinutesUntil(b))
	assert.True(t, a.Equal(MustTimeString("10:00")))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("14:45:00"))
	assert.Equal(t, "14:45", ts.String())

	require.NoError(t, ts.Scan([]byte("08:05:00")))
	assert.Equal(t, "08:05", ts.String())

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 17, 20, 0, 0, time.UTC)))
	assert.Equal(t, "17:20", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	// lib/pq отдает TIME '24:00:00' как полночь следующего дня
	require.NoError(t, ts.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "24:00", ts.String())
	assert.Equal(t, 24*60, ts.Minutes())

	require.NoError(t, ts.Scan("24:00:00"))
	assert.Equal(t, "24:00", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := MustTimeString("11:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "11:00:00", v)

	v, err = TimeString{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeString_JSON(t *testing.T) {
	payload := struct {
		Start TimeString `json:"start"`
	}{Start: MustTimeString("12:15")}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"12:15"}`, string(data))

	var decoded struct {
		Start TimeString `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"07:40"}`), &decoded))
	assert.Equal(t, 460, decoded.Start.Minutes())
}

func TestTimeString_On(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	got := MustTimeString("15:20").On(date)
	assert.Equal(t, time.Date(2026, 3, 14, 15, 20, 0, 0, time.UTC), got)
}
