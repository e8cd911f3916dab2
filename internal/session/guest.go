package session

import (
	"math"
	"time"

	apperrors "neurochat/internal/errors"
)

// GuestBudget is how long an anonymous visitor may chat.
const GuestBudget = 900 * time.Second

// GuestExpiredNotice is appended to the history once when the budget runs out.
const GuestExpiredNotice = "⏰ Your 15-minute guest session has expired. Please create a free account to continue chatting with Neurochat!"

// GuestStatus is a snapshot of the guest timer.
type GuestStatus struct {
	GuestMode bool
	// Remaining is max(0, GuestBudget - elapsed).
	Remaining       time.Duration
	Expired         bool
	ExpiredNotified bool
	// JustExpired is set only on the check that appended the notice.
	JustExpired bool
}

// RemainingSeconds returns Remaining as fractional seconds.
func (g GuestStatus) RemainingSeconds() float64 {
	return g.Remaining.Seconds()
}

// MinutesRemaining returns the whole minutes left.
func (g GuestStatus) MinutesRemaining() int {
	return int(math.Floor(g.Remaining.Seconds() / 60))
}

// SecondsRemaining returns the seconds past the whole minutes left.
func (g GuestStatus) SecondsRemaining() int {
	return int(math.Mod(g.Remaining.Seconds(), 60))
}

// StartGuest begins a fresh guest session at now.
func (s *State) StartGuest(now time.Time) {
	s.GuestMode = true
	s.GuestStartedAt = now
	s.GuestExpiredNotified = false
	s.History = []Turn{}
	s.dirty = true
}

// HasGuestTimer reports whether a guest session was ever started.
func (s *State) HasGuestTimer() bool {
	return !s.GuestStartedAt.IsZero()
}

// GuestExpired reports whether an active guest session has run out of time.
func (s *State) GuestExpired(now time.Time) bool {
	return s.GuestMode && s.HasGuestTimer() && s.remaining(now) <= 0
}

// CheckGuest computes the timer status. The first check that finds an
// expired guest session appends notice() to the history and sets the
// notified flag; later checks never append again.
func (s *State) CheckGuest(now time.Time, notice func() Turn) (GuestStatus, error) {
	if !s.HasGuestTimer() {
		return GuestStatus{}, apperrors.ErrNoGuestSession
	}

	remaining := s.remaining(now)
	status := GuestStatus{
		GuestMode: s.GuestMode,
		Remaining: remaining,
		Expired:   remaining <= 0,
	}

	if status.Expired && s.GuestMode && !s.GuestExpiredNotified {
		s.GuestExpiredNotified = true
		s.Append(notice())
		status.JustExpired = true
	}
	status.ExpiredNotified = s.GuestExpiredNotified
	return status, nil
}

func (s *State) remaining(now time.Time) time.Duration {
	elapsed := now.Sub(s.GuestStartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := GuestBudget - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
