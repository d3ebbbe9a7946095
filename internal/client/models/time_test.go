package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToDB_RoundTrip(t *testing.T) {
	orig := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.FixedZone("WIB", 7*3600))

	s := TimeToDB(orig)
	got, err := TimeFromDB(s)
	require.NoError(t, err)

	// Stored in UTC, same instant.
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(orig))
}

func TestTimeFromDB_Invalid(t *testing.T) {
	_, err := TimeFromDB("yesterday")
	assert.Error(t, err)
}

func TestNullTimeToDB(t *testing.T) {
	assert.Nil(t, NullTimeToDB(nil))

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NullTimeToDB(&ts)
	require.NotNil(t, s)

	got, err := NullTimeFromDB(s)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(ts))
}

func TestNullTimeFromDB_Nil(t *testing.T) {
	got, err := NullTimeFromDB(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
