package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"first_name":    true,
	"last_name":     true,
	"user_type":     true,
	"country":       true,
	"credits":       true,
	"status":        true,
	"last_login_at": true,
}

// OrganizationSortFields contains allowed sort fields for organizations
var OrganizationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"country":    true,
	"sector":     true,
}

// DonorSortFields contains allowed sort fields for donors
var DonorSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"country":    true,
	"is_active":  true,
}

// OpportunitySortFields contains allowed sort fields for donor opportunities
var OpportunitySortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"title":              true,
	"source_name":        true,
	"country":            true,
	"sector":             true,
	"deadline":           true,
	"verification_score": true,
	"status":             true,
	"scraped_at":         true,
}

// BotSortFields contains allowed sort fields for search bots
var BotSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"name":                true,
	"country":             true,
	"status":              true,
	"opportunities_found": true,
	"run_count":           true,
	"last_run_at":         true,
}

// ProposalSortFields contains allowed sort fields for proposals
var ProposalSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"status":       true,
	"submitted_at": true,
	"decided_at":   true,
}

// PaymentSortFields contains allowed sort fields for payment transactions
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"amount":       true,
	"status":       true,
	"processed_at": true,
}
