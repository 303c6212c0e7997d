package identity

import (
	"github.com/granada-os/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered      = "UserRegistered"
	EventTypeUserLoggedIn        = "UserLoggedIn"
	EventTypeUserBanned          = "UserBanned"
	EventTypeUserUnbanned        = "UserUnbanned"
	EventTypeUserStatusChanged   = "UserStatusChanged"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
)

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	UserType UserType `json:"user_type"`
	Country  string   `json:"country"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		FullName:        user.FullName(),
		UserType:        user.UserType,
		Country:         user.Country,
	}
}

// UserLoggedInEvent is published on a successful login
type UserLoggedInEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	IP    string `json:"ip"`
}

// NewUserLoggedInEvent creates a new UserLoggedInEvent
func NewUserLoggedInEvent(user *User, ip string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLoggedIn, AggregateTypeUser, user.ID),
		Email:           user.Email,
		IP:              ip,
	}
}

// UserBannedEvent is published when an account is banned
type UserBannedEvent struct {
	shared.BaseDomainEvent
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// NewUserBannedEvent creates a new UserBannedEvent
func NewUserBannedEvent(user *User) *UserBannedEvent {
	return &UserBannedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserBanned, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Reason:          user.BanReason,
	}
}

// UserUnbannedEvent is published when a ban is lifted
type UserUnbannedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserUnbannedEvent creates a new UserUnbannedEvent
func NewUserUnbannedEvent(user *User) *UserUnbannedEvent {
	return &UserUnbannedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserUnbanned, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
}

// UserStatusChangedEvent is published when a user's status changes
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Email     string     `json:"email"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(user *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// UserPasswordChangedEvent is published when a user's password is changed
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
}
