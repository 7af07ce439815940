package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func withBase(fields ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Whitelisted sort columns per table
var (
	StoreSortFields      = withBase("code", "name", "city", "status")
	UserSortFields       = withBase("username", "full_name", "role", "status", "last_login_at")
	CategorySortFields   = withBase("code", "name")
	ProductSortFields    = withBase("sku", "name", "metal", "retail_price", "status")
	SupplierSortFields   = withBase("code", "name")
	WarehouseSortFields  = withBase("code", "name")
	InventorySortFields  = withBase("quantity", "unit_cost")
	TransferSortFields   = withBase("transfer_number", "status", "completed_at")
	OrderSortFields      = withBase("order_number", "total_amount", "status")
	PurchaseSortFields   = withBase("po_number", "status", "expected_date", "total_amount")
	ShiftSortFields      = withBase("starts_at", "ends_at", "status")
	AttendanceSortFields = withBase("clock_in", "clock_out", "hours_worked", "status")
	PayrollSortFields    = withBase("year", "month", "final_amount", "status")
)
