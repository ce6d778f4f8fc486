package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   RegistrationStatus
		to     RegistrationStatus
		want   bool
	}{
		{name: "pending to approved", from: RegistrationPending, to: RegistrationApproved, want: true},
		{name: "pending to rejected", from: RegistrationPending, to: RegistrationRejected, want: true},
		{name: "pending to completed", from: RegistrationPending, to: RegistrationCompleted, want: false},
		{name: "approved to completed", from: RegistrationApproved, to: RegistrationCompleted, want: true},
		{name: "approved to rejected", from: RegistrationApproved, to: RegistrationRejected, want: false},
		{name: "rejected is terminal", from: RegistrationRejected, to: RegistrationApproved, want: false},
		{name: "completed is terminal", from: RegistrationCompleted, to: RegistrationApproved, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCourseHasCapacity(t *testing.T) {
	unlimited := &Course{MaxSeats: 0, SeatsTaken: 9999}
	assert.True(t, unlimited.HasCapacity())

	open := &Course{MaxSeats: 30, SeatsTaken: 29}
	assert.True(t, open.HasCapacity())

	full := &Course{MaxSeats: 30, SeatsTaken: 30}
	assert.False(t, full.HasCapacity())
}

func TestCourseIsFree(t *testing.T) {
	assert.True(t, (&Course{PriceKobo: 0}).IsFree())
	assert.False(t, (&Course{PriceKobo: 1500000}).IsFree())
}

func TestAssignmentIsPastDue(t *testing.T) {
	now := time.Now()

	noDeadline := &Assignment{}
	assert.False(t, noDeadline.IsPastDue(now))

	future := now.Add(time.Hour)
	assert.False(t, (&Assignment{DueAt: &future}).IsPastDue(now))

	past := now.Add(-time.Hour)
	assert.True(t, (&Assignment{DueAt: &past}).IsPastDue(now))
}

func TestSubmissionIsGraded(t *testing.T) {
	assert.False(t, (&Submission{}).IsGraded())

	gradedAt := time.Now()
	assert.True(t, (&Submission{GradedAt: &gradedAt}).IsGraded())
}

func TestUserFullName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Obi"}
	assert.Equal(t, "Ada Obi", u.FullName())
}
