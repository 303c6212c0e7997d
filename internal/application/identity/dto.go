package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/identity"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	UserType     identity.UserType
	Country      string
	Sector       string
	Organization string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned to clients
type UserInfo struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	FullName     string
	UserType     identity.UserType
	Country      string
	Sector       string
	Organization string
	Credits      int
	IsBanned     bool
	CreatedAt    time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// UpdateProfileInput contains the input for profile updates
type UpdateProfileInput struct {
	UserID       uuid.UUID
	FirstName    string
	LastName     string
	Country      string
	Sector       string
	Organization string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// ListUsersInput contains admin list filters
type ListUsersInput struct {
	Keyword  string
	UserType *identity.UserType
	Country  string
	Banned   *bool
	Page     int
	PageSize int
}

// UserPage is one page of users with the total count
type UserPage struct {
	Users    []UserInfo
	Total    int64
	Page     int
	PageSize int
}

// BanUserInput contains the input for banning a user
type BanUserInput struct {
	UserID uuid.UUID
	Reason string
}

// AdjustCreditsInput contains the input for an admin credit adjustment
type AdjustCreditsInput struct {
	UserID     uuid.UUID
	Delta      int
	Reason     string
	OperatorID uuid.UUID
}

// AdjustCreditsResult reports the balance movement
type AdjustCreditsResult struct {
	BalanceBefore int
	BalanceAfter  int
}

// toUserInfo maps a domain user to the transport shape
func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		UserType:     u.UserType,
		Country:      u.Country,
		Sector:       u.Sector,
		Organization: u.Organization,
		Credits:      u.Credits,
		IsBanned:     u.IsBanned,
		CreatedAt:    u.CreatedAt,
	}
}
