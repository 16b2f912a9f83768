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

func withCommon(fields ...string) map[string]bool {
	m := make(map[string]bool, len(CommonSortFields)+len(fields))
	for k := range CommonSortFields {
		m[k] = true
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Allowed sort fields per table
var (
	UserSortFields        = withCommon("email", "name", "role", "status", "last_login_at")
	CurrencySortFields    = withCommon("code", "name", "is_active")
	CountrySortFields     = withCommon("name", "iso_code", "is_active")
	IndustrySortFields    = withCommon("name", "is_active")
	CompanySortFields     = withCommon("name", "is_active")
	BranchSortFields      = withCommon("name", "is_head_office")
	DepartmentSortFields  = withCommon("name")
	TeamSortFields        = withCommon("name")
	DesignationSortFields = withCommon("title", "level")
	EmployeeSortFields    = withCommon("employee_code", "first_name", "last_name", "email", "status", "joined_at")
	DealSortFields        = withCommon("deal_code", "name", "stage_code", "progress_percent", "status", "priority", "estimated_value", "expected_close_date")
	FileSortFields        = withCommon("original_name", "size", "mime_type")
)

// CRM index sort keys map the public name to a column of the joined query
var (
	BuyerSortColumns = map[string]string{
		"created_at":     "buyers.created_at",
		"updated_at":     "buyers.updated_at",
		"buyer_code":     "buyers.buyer_code",
		"status":         "buyers.status",
		"company_name":   "company_overviews.company_name",
		"annual_revenue": "financial_details.annual_revenue",
		"ebitda":         "financial_details.ebitda",
	}
	SellerSortColumns = map[string]string{
		"created_at":         "sellers.created_at",
		"updated_at":         "sellers.updated_at",
		"seller_code":        "sellers.seller_code",
		"status":             "sellers.status",
		"sale_type":          "sellers.sale_type",
		"company_name":       "company_overviews.company_name",
		"annual_revenue":     "financial_details.annual_revenue",
		"ebitda":             "financial_details.ebitda",
		"expected_valuation": "financial_details.expected_valuation",
	}
	PartnerSortColumns = map[string]string{
		"created_at":      "partners.created_at",
		"updated_at":      "partners.updated_at",
		"partner_code":    "partners.partner_code",
		"status":          "partners.status",
		"company_name":    "company_overviews.company_name",
		"commission_rate": "partnership_details.commission_rate",
	}
)

// SortKeys returns the public names of a sort column map
func SortKeys(columns map[string]string) map[string]bool {
	keys := make(map[string]bool, len(columns))
	for k := range columns {
		keys[k] = true
	}
	return keys
}
