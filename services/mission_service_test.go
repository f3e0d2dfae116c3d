package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"mission-board-system/models"
)

// A status-predicated UPDATE that matches no row means another request
// already moved the mission; the transition must surface the conflict so
// the surrounding transaction rolls back instead of committing a credit
// for a delivery that never happened.
func TestApplyTransition(t *testing.T) {
	dbErr := errors.New("driver: bad connection")

	testCases := []struct {
		name     string
		res      *gorm.DB
		conflict error
		want     error
	}{
		{
			name:     "one matched row commits",
			res:      &gorm.DB{RowsAffected: 1},
			conflict: models.ErrAlreadySubmitted,
			want:     nil,
		},
		{
			name:     "zero matched rows reports the delivery conflict",
			res:      &gorm.DB{RowsAffected: 0},
			conflict: models.ErrAlreadySubmitted,
			want:     models.ErrAlreadySubmitted,
		},
		{
			name:     "zero matched rows reports the finalize conflict",
			res:      &gorm.DB{RowsAffected: 0},
			conflict: models.ErrMissionFinalized,
			want:     models.ErrMissionFinalized,
		},
		{
			name:     "driver error wins over the conflict",
			res:      &gorm.DB{Error: dbErr, RowsAffected: 0},
			conflict: models.ErrAlreadySubmitted,
			want:     dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := applyTransition(tc.res, tc.conflict)
			if !errors.Is(got, tc.want) {
				t.Errorf("applyTransition() = %v, want %v", got, tc.want)
			}
		})
	}
}
