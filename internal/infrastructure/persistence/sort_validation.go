package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting
// to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist, falling
// back to defaultField. The whitelist guards ORDER BY against injection.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// TripSortFields contains allowed sort fields for trips.
var TripSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"staff_id":       true,
	"departure_date": true,
	"return_date":    true,
	"status":         true,
}

// PaymentSortFields contains allowed sort fields for payments.
var PaymentSortFields = map[string]bool{
	"id":                    true,
	"created_at":            true,
	"updated_at":            true,
	"type":                  true,
	"total_approved_amount": true,
	"status":                true,
}
