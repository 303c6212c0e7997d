package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/granada-os/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserType classifies the account that registered on the platform
type UserType string

const (
	UserTypeStudent  UserType = "student"
	UserTypeNGO      UserType = "ngo"
	UserTypeBusiness UserType = "business"
	UserTypeAdmin    UserType = "admin"
)

// IsValid returns true for a known user type
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeStudent, UserTypeNGO, UserTypeBusiness, UserTypeAdmin:
		return true
	default:
		return false
	}
}

// UserStatus represents the lifecycle status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"      // Locked due to failed attempts
	UserStatusDeactivated UserStatus = "deactivated" // Manually deactivated
)

// Password cost for bcrypt
const bcryptCost = 12

// User is the aggregate root for platform accounts.
// Accounts are never hard-deleted; banning and deactivation are the
// only removal mechanisms.
type User struct {
	shared.BaseAggregateRoot
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	UserType       UserType
	Country        string
	Sector         string
	Organization   string
	Credits        int
	Status         UserStatus
	IsBanned       bool
	BanReason      string
	LastLoginAt    *time.Time
	LastLoginIP    string
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates a new active user with a zero credit balance.
// The welcome credit grant is applied through the billing ledger so the
// balance always reconciles against transaction history.
func NewUser(email, password, firstName, lastName string, userType UserType) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "Unknown user type")
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		FirstName:         firstName,
		LastName:          lastName,
		UserType:          userType,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin returns true for admin accounts
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// UpdateProfile updates the mutable profile attributes
func (u *User) UpdateProfile(firstName, lastName, country, sector, organization string) error {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if len(country) > 100 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country cannot exceed 100 characters")
	}

	u.FirstName = firstName
	u.LastName = strings.TrimSpace(lastName)
	u.Country = strings.TrimSpace(country)
	u.Sector = strings.TrimSpace(sector)
	u.Organization = strings.TrimSpace(organization)
	u.Touch()
	u.IncrementVersion()

	return nil
}

// ChangePassword changes the user's password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Ban bans the user. Banned users cannot log in or spend credits.
func (u *User) Ban(reason string) error {
	if u.IsBanned {
		return shared.NewDomainError("ALREADY_BANNED", "User is already banned")
	}
	if u.IsAdmin() {
		return shared.NewDomainError("CANNOT_BAN_ADMIN", "Admin accounts cannot be banned")
	}

	u.IsBanned = true
	u.BanReason = strings.TrimSpace(reason)
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserBannedEvent(u))

	return nil
}

// Unban lifts a ban
func (u *User) Unban() error {
	if !u.IsBanned {
		return shared.NewDomainError("NOT_BANNED", "User is not banned")
	}

	u.IsBanned = false
	u.BanReason = ""
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserUnbannedEvent(u))

	return nil
}

// Activate activates the user
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}

	oldStatus := u.Status
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserStatusChangedEvent(u, oldStatus, UserStatusActive))

	return nil
}

// Deactivate deactivates the user
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}

	oldStatus := u.Status
	u.Status = UserStatusDeactivated
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserStatusChangedEvent(u, oldStatus, UserStatusDeactivated))

	return nil
}

// Lock locks the user account for the given duration
func (u *User) Lock(duration time.Duration) error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("USER_DEACTIVATED", "Cannot lock a deactivated user")
	}

	oldStatus := u.Status
	u.Status = UserStatusLocked
	if duration > 0 {
		lockedUntil := time.Now().Add(duration)
		u.LockedUntil = &lockedUntil
	}
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserStatusChangedEvent(u, oldStatus, UserStatusLocked))

	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserLoggedInEvent(u, ip))
}

// RecordLoginFailure records a failed login attempt
// Returns true if the account was locked as a result
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	u.IncrementVersion()

	if u.FailedAttempts >= maxAttempts {
		_ = u.Lock(lockDuration)
		return true
	}

	return false
}

// AddCredits increases the credit balance
func (u *User) AddCredits(amount int) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_CREDIT_AMOUNT", "Credit amount must be positive")
	}

	u.Credits += amount
	u.Touch()
	u.IncrementVersion()

	return nil
}

// DeductCredits decreases the credit balance.
// Banned users cannot spend and the balance never goes negative.
func (u *User) DeductCredits(amount int) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_CREDIT_AMOUNT", "Credit amount must be positive")
	}
	if u.IsBanned {
		return shared.ErrAccountBanned
	}
	if u.Credits < amount {
		return shared.ErrInsufficientCredits
	}

	u.Credits -= amount
	u.Touch()
	u.IncrementVersion()

	return nil
}

// AdjustCredits applies a signed admin adjustment
func (u *User) AdjustCredits(delta int) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_CREDIT_AMOUNT", "Adjustment cannot be zero")
	}
	if u.Credits+delta < 0 {
		return shared.ErrInsufficientCredits
	}

	u.Credits += delta
	u.Touch()
	u.IncrementVersion()

	return nil
}

// IsLocked returns true if the account lock is still in effect
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the user may authenticate
func (u *User) CanLogin() bool {
	if u.IsBanned {
		return false
	}
	if u.Status == UserStatusDeactivated {
		return false
	}
	if u.IsLocked() {
		return false
	}
	return true
}

// Validation functions

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
