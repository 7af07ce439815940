package report

import (
	"context"
	"strings"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type names a report
type Type string

const (
	TypeSales      Type = "sales"
	TypeInventory  Type = "inventory"
	TypePayroll    Type = "payroll"
	TypeAttendance Type = "attendance"
)

// ParseType validates a report name from the URL
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeSales, TypeInventory, TypePayroll, TypeAttendance:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_REPORT_TYPE", "Report type must be sales, inventory, payroll or attendance")
}

// Format is the export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates an export format, defaulting to JSON
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", shared.NewDomainError("INVALID_REPORT_FORMAT", "Format must be json, csv, xlsx or pdf")
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/json"
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	return string(f)
}

// Filter narrows a report. Sales and attendance use the [From, To) window,
// payroll uses Month and Year, inventory uses WarehouseID and LowStockOnly.
type Filter struct {
	From         time.Time
	To           time.Time
	StoreID      *uuid.UUID
	WarehouseID  *uuid.UUID
	LowStockOnly bool
	Month        int
	Year         int
}

// SalesRow is revenue per store
type SalesRow struct {
	StoreID    uuid.UUID       `json:"store_id"`
	StoreCode  string          `json:"store_code"`
	StoreName  string          `json:"store_name"`
	OrderCount int64           `json:"order_count"`
	ItemsSold  int64           `json:"items_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// InventoryRow is stock of one product in one warehouse
type InventoryRow struct {
	WarehouseCode string          `json:"warehouse_code"`
	WarehouseName string          `json:"warehouse_name"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

// LowStock reports whether the row is at or below its reorder level
func (r InventoryRow) LowStock() bool {
	return r.Quantity <= r.ReorderLevel
}

// PayrollRow is one employee's payroll for the period
type PayrollRow struct {
	Username         string          `json:"username"`
	FullName         string          `json:"full_name"`
	Role             string          `json:"role"`
	StoreCode        string          `json:"store_code"`
	PayType          string          `json:"pay_type"`
	HoursWorked      decimal.Decimal `json:"hours_worked"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	EstimatedSales   decimal.Decimal `json:"estimated_sales"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	FinalAmount      decimal.Decimal `json:"final_amount"`
	Status           string          `json:"status"`
}

// AttendanceRow is hours worked per employee
type AttendanceRow struct {
	Username  string          `json:"username"`
	FullName  string          `json:"full_name"`
	StoreCode string          `json:"store_code"`
	Days      int64           `json:"days"`
	Hours     decimal.Decimal `json:"hours"`
}

// QueryRepository runs the read-side aggregations behind reports
type QueryRepository interface {
	Sales(ctx context.Context, f Filter) ([]SalesRow, error)
	Inventory(ctx context.Context, f Filter) ([]InventoryRow, error)
	Payroll(ctx context.Context, f Filter) ([]PayrollRow, error)
	Attendance(ctx context.Context, f Filter) ([]AttendanceRow, error)
}
