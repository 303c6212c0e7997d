package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/granada-os/backend/internal/domain/analytics"
)

// BehaviorSnapshotModel is the persistence model for flushed session metrics.
type BehaviorSnapshotModel struct {
	BaseModel
	SessionID        string     `gorm:"type:varchar(100);not null;index"`
	UserID           *uuid.UUID `gorm:"type:uuid;index"`
	Page             string     `gorm:"type:varchar(500)"`
	Country          string     `gorm:"type:varchar(100)"`
	City             string     `gorm:"type:varchar(100)"`
	EventCount       int        `gorm:"not null"`
	ClickCount       int        `gorm:"not null"`
	PointerDistance  float64    `gorm:"not null"`
	ScrollDistance   float64    `gorm:"not null"`
	HesitationRatio  float64    `gorm:"not null"`
	FrustrationScore float64    `gorm:"not null"`
	EngagementScore  float64    `gorm:"not null"`
	ConfidenceScore  float64    `gorm:"not null"`
	Intent           string     `gorm:"type:varchar(20);not null"`
	CapturedAt       time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BehaviorSnapshotModel) TableName() string {
	return "behavior_snapshots"
}

// ToDomain converts the persistence model to a domain BehaviorSnapshot.
func (m *BehaviorSnapshotModel) ToDomain() *analytics.BehaviorSnapshot {
	return &analytics.BehaviorSnapshot{
		BaseEntity:       m.BaseModel.ToDomain(),
		SessionID:        m.SessionID,
		UserID:           m.UserID,
		Page:             m.Page,
		Country:          m.Country,
		City:             m.City,
		EventCount:       m.EventCount,
		ClickCount:       m.ClickCount,
		PointerDistance:  m.PointerDistance,
		ScrollDistance:   m.ScrollDistance,
		HesitationRatio:  m.HesitationRatio,
		FrustrationScore: m.FrustrationScore,
		EngagementScore:  m.EngagementScore,
		ConfidenceScore:  m.ConfidenceScore,
		Intent:           m.Intent,
		CapturedAt:       m.CapturedAt,
	}
}

// FromDomain populates the persistence model from a domain BehaviorSnapshot.
func (m *BehaviorSnapshotModel) FromDomain(s *analytics.BehaviorSnapshot) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.SessionID = s.SessionID
	m.UserID = s.UserID
	m.Page = s.Page
	m.Country = s.Country
	m.City = s.City
	m.EventCount = s.EventCount
	m.ClickCount = s.ClickCount
	m.PointerDistance = s.PointerDistance
	m.ScrollDistance = s.ScrollDistance
	m.HesitationRatio = s.HesitationRatio
	m.FrustrationScore = s.FrustrationScore
	m.EngagementScore = s.EngagementScore
	m.ConfidenceScore = s.ConfidenceScore
	m.Intent = s.Intent
	m.CapturedAt = s.CapturedAt
}

// BehaviorSnapshotModelFromDomain creates a new persistence model from a domain BehaviorSnapshot.
func BehaviorSnapshotModelFromDomain(s *analytics.BehaviorSnapshot) *BehaviorSnapshotModel {
	m := &BehaviorSnapshotModel{}
	m.FromDomain(s)
	return m
}

// UserInteractionModel is the persistence model for ingested batch records.
type UserInteractionModel struct {
	BaseModel
	SessionID  string     `gorm:"type:varchar(100);not null;index"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Page       string     `gorm:"type:varchar(500)"`
	ClientIP   string     `gorm:"type:varchar(45)"`
	Country    string     `gorm:"type:varchar(100)"`
	City       string     `gorm:"type:varchar(100)"`
	EventCount int        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserInteractionModel) TableName() string {
	return "user_interactions"
}

// ToDomain converts the persistence model to a domain UserInteraction.
func (m *UserInteractionModel) ToDomain() *analytics.UserInteraction {
	return &analytics.UserInteraction{
		BaseEntity: m.BaseModel.ToDomain(),
		SessionID:  m.SessionID,
		UserID:     m.UserID,
		Page:       m.Page,
		ClientIP:   m.ClientIP,
		Country:    m.Country,
		City:       m.City,
		EventCount: m.EventCount,
	}
}

// FromDomain populates the persistence model from a domain UserInteraction.
func (m *UserInteractionModel) FromDomain(i *analytics.UserInteraction) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.SessionID = i.SessionID
	m.UserID = i.UserID
	m.Page = i.Page
	m.ClientIP = i.ClientIP
	m.Country = i.Country
	m.City = i.City
	m.EventCount = i.EventCount
}

// UserInteractionModelFromDomain creates a new persistence model from a domain UserInteraction.
func UserInteractionModelFromDomain(i *analytics.UserInteraction) *UserInteractionModel {
	m := &UserInteractionModel{}
	m.FromDomain(i)
	return m
}
