package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "neurochat/internal/errors"
)

func noticeTurn() Turn {
	return Turn{Role: RoleAI, Message: GuestExpiredNotice}
}

func TestCheckGuest_NoGuestSession(t *testing.T) {
	st := New("sid")
	_, err := st.CheckGuest(time.Now(), noticeTurn)
	assert.ErrorIs(t, err, apperrors.ErrNoGuestSession)
}

func TestCheckGuest_RemainingIsBudgetMinusElapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := New("sid")
	st.StartGuest(start)

	tests := []struct {
		elapsed   time.Duration
		remaining time.Duration
		expired   bool
	}{
		{0, 900 * time.Second, false},
		{90500 * time.Millisecond, 809500 * time.Millisecond, false},
		{899 * time.Second, time.Second, false},
		{900 * time.Second, 0, true},
		{time.Hour, 0, true},
	}

	for _, tt := range tests {
		status, err := st.CheckGuest(start.Add(tt.elapsed), noticeTurn)
		require.NoError(t, err)
		assert.Equal(t, tt.remaining, status.Remaining, "elapsed %s", tt.elapsed)
		assert.Equal(t, tt.expired, status.Expired, "elapsed %s", tt.elapsed)
		assert.True(t, status.GuestMode)
	}
}

func TestCheckGuest_MonotonicWhilePolled(t *testing.T) {
	start := time.Now()
	st := New("sid")
	st.StartGuest(start)

	prev := GuestBudget + time.Second
	for elapsed := time.Duration(0); elapsed <= 20*time.Minute; elapsed += 37 * time.Second {
		status, err := st.CheckGuest(start.Add(elapsed), noticeTurn)
		require.NoError(t, err)
		assert.LessOrEqual(t, status.Remaining, prev)
		assert.GreaterOrEqual(t, status.Remaining, time.Duration(0))
		prev = status.Remaining
	}
}

func TestCheckGuest_NoticeAppendedExactlyOnce(t *testing.T) {
	start := time.Now()
	st := New("sid")
	st.StartGuest(start)

	calls := 0
	notice := func() Turn {
		calls++
		return noticeTurn()
	}

	status, err := st.CheckGuest(start.Add(10*time.Minute), notice)
	require.NoError(t, err)
	assert.False(t, status.Expired)
	assert.False(t, status.ExpiredNotified)
	assert.Empty(t, st.History)

	status, err = st.CheckGuest(start.Add(16*time.Minute), notice)
	require.NoError(t, err)
	assert.True(t, status.Expired)
	assert.True(t, status.JustExpired)
	assert.True(t, status.ExpiredNotified)

	for i := 0; i < 3; i++ {
		status, err = st.CheckGuest(start.Add(20*time.Minute), notice)
		require.NoError(t, err)
		assert.True(t, status.Expired)
		assert.False(t, status.JustExpired)
		assert.True(t, status.ExpiredNotified)
	}

	assert.Equal(t, 1, calls)
	require.Len(t, st.History, 1)
	assert.Equal(t, GuestExpiredNotice, st.History[0].Message)
}

func TestCheckGuest_LoggedInUserIsNotNotified(t *testing.T) {
	start := time.Now()
	st := New("sid")
	st.StartGuest(start)
	st.BindUser(42)

	status, err := st.CheckGuest(start.Add(time.Hour), noticeTurn)
	require.NoError(t, err)
	assert.True(t, status.Expired)
	assert.False(t, status.GuestMode)
	assert.False(t, status.JustExpired)
	assert.Empty(t, st.History)
	assert.False(t, st.GuestExpired(start.Add(time.Hour)))
}

func TestGuestStatus_MinuteSecondSplit(t *testing.T) {
	g := GuestStatus{Remaining: 754500 * time.Millisecond}
	assert.Equal(t, 12, g.MinutesRemaining())
	assert.Equal(t, 34, g.SecondsRemaining())
	assert.InDelta(t, 754.5, g.RemainingSeconds(), 1e-9)
}

func TestStartGuest_ResetsHistoryAndNotice(t *testing.T) {
	st := New("sid")
	st.Append(Turn{Role: RoleUser, Message: "old"})
	st.GuestExpiredNotified = true

	st.StartGuest(time.Now())
	assert.Empty(t, st.History)
	assert.False(t, st.GuestExpiredNotified)
	assert.True(t, st.Dirty())
}
