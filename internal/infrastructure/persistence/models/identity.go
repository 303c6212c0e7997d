package models

import (
	"time"

	"github.com/granada-os/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	FirstName      string              `gorm:"type:varchar(100);not null"`
	LastName       string              `gorm:"type:varchar(100)"`
	UserType       identity.UserType   `gorm:"type:varchar(20);not null;index"`
	Country        string              `gorm:"type:varchar(100);index"`
	Sector         string              `gorm:"type:varchar(100)"`
	Organization   string              `gorm:"type:varchar(200)"`
	Credits        int                 `gorm:"not null;default:0"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IsBanned       bool                `gorm:"not null;default:false;index"`
	BanReason      string              `gorm:"type:text"`
	LastLoginAt    *time.Time          `gorm:"index"`
	LastLoginIP    string              `gorm:"type:varchar(45)"`
	FailedAttempts int                 `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		UserType:          m.UserType,
		Country:           m.Country,
		Sector:            m.Sector,
		Organization:      m.Organization,
		Credits:           m.Credits,
		Status:            m.Status,
		IsBanned:          m.IsBanned,
		BanReason:         m.BanReason,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.UserType = u.UserType
	m.Country = u.Country
	m.Sector = u.Sector
	m.Organization = u.Organization
	m.Credits = u.Credits
	m.Status = u.Status
	m.IsBanned = u.IsBanned
	m.BanReason = u.BanReason
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
