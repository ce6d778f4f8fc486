package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTrainer RoleType = "TRAINER"
	RoleStudent RoleType = "STUDENT"
)

// RegistrationStatus defines the lifecycle state of a course registration
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "PENDING"
	RegistrationApproved  RegistrationStatus = "APPROVED"
	RegistrationRejected  RegistrationStatus = "REJECTED"
	RegistrationCompleted RegistrationStatus = "COMPLETED"
)

// CanTransitionTo reports whether a registration may move to the target status.
// PENDING -> APPROVED | REJECTED, APPROVED -> COMPLETED.
func (s RegistrationStatus) CanTransitionTo(target RegistrationStatus) bool {
	switch s {
	case RegistrationPending:
		return target == RegistrationApproved || target == RegistrationRejected
	case RegistrationApproved:
		return target == RegistrationCompleted
	default:
		return false
	}
}

// PaymentStatus defines the state of a payment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// LiveClassStatus defines the state of a live class session
type LiveClassStatus string

const (
	LiveClassScheduled LiveClassStatus = "SCHEDULED"
	LiveClassLive      LiveClassStatus = "LIVE"
	LiveClassEnded     LiveClassStatus = "ENDED"
	LiveClassCancelled LiveClassStatus = "CANCELLED"
)

// StoryStatus defines the publishing state of a story
type StoryStatus string

const (
	StoryDraft     StoryStatus = "DRAFT"
	StoryPublished StoryStatus = "PUBLISHED"
	StoryArchived  StoryStatus = "ARCHIVED"
)
