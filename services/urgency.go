package services

import (
	"strconv"
	"strings"
	"time"

	"mission-board-system/models"
)

// DefaultUrgencyHours is the fallback when a tier label does not parse.
// This mirrors the dashboard's behavior: an unknown tier silently behaves
// like "3h - Importante" rather than erroring. Operators adding a new tier
// label without the "<N>h" prefix get the 3h deadline without any warning.
const DefaultUrgencyHours = 3

// ParseUrgencyHours extracts the deadline offset from an urgency tier label
// such as "1h - Urgente". The label convention is "<N>h - <qualifier>"; the
// leading integer before the first "h" is the offset in hours.
func ParseUrgencyHours(label string) int {
	head, _, found := strings.Cut(label, "h")
	if !found {
		return DefaultUrgencyHours
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || n <= 0 {
		return DefaultUrgencyHours
	}
	return n
}

// DeadlineStatus is the evaluated deadline state of a mission at one point
// in time.
type DeadlineStatus struct {
	// Delivered short-circuits the countdown: elapsed time after delivery
	// is irrelevant to the mission state.
	Delivered bool `json:"delivered"`
	Expired   bool `json:"expired"`

	// Remaining time until the deadline, broken into whole hours and
	// leftover minutes (floor, not rounding). Zero when delivered/expired.
	Remaining time.Duration `json:"-"`
	Hours     int           `json:"hours"`
	Minutes   int           `json:"minutes"`
}

// EvaluateDeadline computes the deadline state of a mission. It is a pure
// function of its inputs: the authoritative expiry fact is always derived
// from createdAt + tier offset against now, never cached.
func EvaluateDeadline(createdAt time.Time, urgency string, now time.Time, status models.MissionStatus) DeadlineStatus {
	if status == models.MissionStatusDelivered || status == models.MissionStatusFinalized {
		return DeadlineStatus{Delivered: true}
	}

	deadline := createdAt.Add(time.Duration(ParseUrgencyHours(urgency)) * time.Hour)
	if !now.Before(deadline) {
		return DeadlineStatus{Expired: true}
	}

	remaining := deadline.Sub(now)
	minutes := int(remaining / time.Minute)
	return DeadlineStatus{
		Remaining: remaining,
		Hours:     minutes / 60,
		Minutes:   minutes % 60,
	}
}
