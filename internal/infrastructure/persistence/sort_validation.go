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
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	trimmed := strings.ToLower(strings.TrimSpace(sortField))
	if column, ok := allowedFields[trimmed]; ok {
		return column
	}
	return defaultField
}

// LeaseSortFields maps accepted sort keys of the lease listing to columns
var LeaseSortFields = map[string]string{
	"id":           "l.id",
	"created_at":   "l.created_at",
	"lease_start":  "l.lease_start",
	"lease_end":    "l.lease_end",
	"monthly_rent": "l.monthly_rent",
	"status":       "l.status",
	"tenant_name":  "t.company_name",
	"unit_number":  "u.unit_number",
}

// UnitSortFields maps accepted sort keys of the unit listing to columns
var UnitSortFields = map[string]string{
	"id":          "u.id",
	"unit_number": "u.unit_number",
	"status":      "u.status",
	"area_sqft":   "u.area_sqft",
}
