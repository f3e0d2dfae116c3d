package services

import (
	"testing"
	"time"

	"mission-board-system/models"
)

func TestParseUrgencyHours(t *testing.T) {
	testCases := []struct {
		name  string
		label string
		want  int
	}{
		{name: "urgent tier", label: models.UrgencyUrgent, want: 1},
		{name: "important tier", label: models.UrgencyImportant, want: 3},
		{name: "low urgency tier", label: models.UrgencyLowUrgency, want: 5},
		{name: "bare hour count", label: "12h", want: 12},
		{name: "unknown label falls back to default", label: "amanhã", want: 3},
		{name: "empty label falls back to default", label: "", want: 3},
		{name: "negative hours fall back to default", label: "-2h - Urgente", want: 3},
		{name: "no leading integer falls back to default", label: "h - Urgente", want: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseUrgencyHours(tc.label); got != tc.want {
				t.Errorf("ParseUrgencyHours(%q) = %d, want %d", tc.label, got, tc.want)
			}
		})
	}
}

func TestEvaluateDeadline(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		urgency string
		now     time.Time
		status  models.MissionStatus
		want    DeadlineStatus
	}{
		{
			name:    "1h tier expired after 61 minutes",
			urgency: models.UrgencyUrgent,
			now:     createdAt.Add(61 * time.Minute),
			status:  models.MissionStatusInProgress,
			want:    DeadlineStatus{Expired: true},
		},
		{
			name:    "1h tier has 30 minutes left at half time",
			urgency: models.UrgencyUrgent,
			now:     createdAt.Add(30 * time.Minute),
			status:  models.MissionStatusInProgress,
			want:    DeadlineStatus{Remaining: 30 * time.Minute, Hours: 0, Minutes: 30},
		},
		{
			name:    "exactly at the deadline counts as expired",
			urgency: models.UrgencyUrgent,
			now:     createdAt.Add(1 * time.Hour),
			status:  models.MissionStatusInProgress,
			want:    DeadlineStatus{Expired: true},
		},
		{
			name:    "3h tier reports 10 minutes at T+2h50m",
			urgency: models.UrgencyImportant,
			now:     createdAt.Add(2*time.Hour + 50*time.Minute),
			status:  models.MissionStatusInProgress,
			want:    DeadlineStatus{Remaining: 10 * time.Minute, Hours: 0, Minutes: 10},
		},
		{
			name:    "3h tier expired at T+3h01m",
			urgency: models.UrgencyImportant,
			now:     createdAt.Add(3*time.Hour + 1*time.Minute),
			status:  models.MissionStatusInProgress,
			want:    DeadlineStatus{Expired: true},
		},
		{
			name:    "remainder minutes use floor semantics",
			urgency: models.UrgencyLowUrgency,
			now:     createdAt.Add(3*time.Hour + 29*time.Minute + 30*time.Second),
			status:  models.MissionStatusInProgress,
			want:    DeadlineStatus{Remaining: 90*time.Minute + 30*time.Second, Hours: 1, Minutes: 30},
		},
		{
			name:    "delivered mission short-circuits even past the deadline",
			urgency: models.UrgencyImportant,
			now:     createdAt.Add(5 * time.Hour),
			status:  models.MissionStatusDelivered,
			want:    DeadlineStatus{Delivered: true},
		},
		{
			name:    "finalized mission short-circuits",
			urgency: models.UrgencyUrgent,
			now:     createdAt.Add(10 * time.Hour),
			status:  models.MissionStatusFinalized,
			want:    DeadlineStatus{Delivered: true},
		},
		{
			name:    "unknown tier behaves like the 3h default",
			urgency: "amanhã",
			now:     createdAt.Add(2*time.Hour + 59*time.Minute),
			status:  models.MissionStatusInProgress,
			want:    DeadlineStatus{Remaining: 1 * time.Minute, Hours: 0, Minutes: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateDeadline(createdAt, tc.urgency, tc.now, tc.status)
			if got != tc.want {
				t.Errorf("EvaluateDeadline() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// The clock must be a pure function of its inputs: identical inputs always
// produce identical outputs.
func TestEvaluateDeadlineDeterministic(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := createdAt.Add(90 * time.Minute)

	first := EvaluateDeadline(createdAt, models.UrgencyImportant, now, models.MissionStatusInProgress)
	second := EvaluateDeadline(createdAt, models.UrgencyImportant, now, models.MissionStatusInProgress)
	if first != second {
		t.Errorf("EvaluateDeadline not deterministic: %+v vs %+v", first, second)
	}
}
