package branch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Branch{}.Location())
	assert.Equal(t, time.UTC, Branch{Timezone: "Not/AZone"}.Location())

	loc := Branch{Timezone: "Asia/Kolkata"}.Location()
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestMidnightOn(t *testing.T) {
	b := Branch{Timezone: "Asia/Kolkata"}
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2026-02-16 01:30 IST is still 2026-02-15 20:00 UTC
	now := time.Date(2026, 2, 15, 20, 0, 0, 0, time.UTC)
	midnight := b.MidnightOn(now)
	assert.Equal(t, time.Date(2026, 2, 16, 0, 0, 0, 0, kolkata).Unix(), midnight.Unix())
}
