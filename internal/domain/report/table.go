package report

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Align controls how a column is laid out by renderers
type Align string

const (
	AlignLeft  Align = "left"
	AlignRight Align = "right"
)

// Column describes one column of a Table
type Column struct {
	Header string
	Align  Align
}

// Table is the format-neutral shape every renderer consumes
type Table struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]string
	Totals      []string
}

// Renderer encodes a Table into a file format
type Renderer interface {
	Format() Format
	Render(ctx context.Context, t *Table) ([]byte, error)
}

func left(h string) Column  { return Column{Header: h, Align: AlignLeft} }
func right(h string) Column { return Column{Header: h, Align: AlignRight} }

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// SalesTable lays out a sales report
func SalesTable(rows []SalesRow, f Filter) *Table {
	t := &Table{
		Title:    "Sales by store",
		Subtitle: periodLabel(f),
		Columns:  []Column{left("Store"), left("Name"), right("Orders"), right("Items sold"), right("Revenue")},
	}
	var orders, items int64
	revenue := decimal.Zero
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.StoreCode, r.StoreName,
			strconv.FormatInt(r.OrderCount, 10), strconv.FormatInt(r.ItemsSold, 10), money(r.Revenue),
		})
		orders += r.OrderCount
		items += r.ItemsSold
		revenue = revenue.Add(r.Revenue)
	}
	t.Totals = []string{"Total", "", strconv.FormatInt(orders, 10), strconv.FormatInt(items, 10), money(revenue)}
	return t
}

// InventoryTable lays out an inventory report
func InventoryTable(rows []InventoryRow, f Filter) *Table {
	subtitle := "All stock"
	if f.LowStockOnly {
		subtitle = "At or below reorder level"
	}
	t := &Table{
		Title:    "Inventory valuation",
		Subtitle: subtitle,
		Columns: []Column{
			left("Warehouse"), left("SKU"), left("Product"),
			right("Quantity"), right("Reorder level"), right("Unit cost"), right("Stock value"),
		},
	}
	var qty int
	value := decimal.Zero
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.WarehouseCode, r.SKU, r.ProductName,
			strconv.Itoa(r.Quantity), strconv.Itoa(r.ReorderLevel), money(r.UnitCost), money(r.StockValue),
		})
		qty += r.Quantity
		value = value.Add(r.StockValue)
	}
	t.Totals = []string{"Total", "", "", strconv.Itoa(qty), "", "", money(value)}
	return t
}

// PayrollTable lays out a payroll report
func PayrollTable(rows []PayrollRow, f Filter) *Table {
	t := &Table{
		Title:    "Payroll",
		Subtitle: time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		Columns: []Column{
			left("Employee"), left("Role"), left("Store"), left("Pay type"), right("Hours"),
			right("Base"), right("Sales"), right("Commission"), right("Final"), left("Status"),
		},
	}
	total := decimal.Zero
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.FullName, r.Role, r.StoreCode, r.PayType, r.HoursWorked.StringFixed(2),
			money(r.BaseAmount), money(r.EstimatedSales), money(r.CommissionAmount), money(r.FinalAmount), r.Status,
		})
		total = total.Add(r.FinalAmount)
	}
	t.Totals = []string{"Total", "", "", "", "", "", "", "", money(total), ""}
	return t
}

// AttendanceTable lays out an attendance report
func AttendanceTable(rows []AttendanceRow, f Filter) *Table {
	t := &Table{
		Title:    "Attendance",
		Subtitle: periodLabel(f),
		Columns:  []Column{left("Employee"), left("Username"), left("Store"), right("Days"), right("Hours")},
	}
	hours := decimal.Zero
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.FullName, r.Username, r.StoreCode, strconv.FormatInt(r.Days, 10), r.Hours.StringFixed(2),
		})
		hours = hours.Add(r.Hours)
	}
	t.Totals = []string{"Total", "", "", "", hours.StringFixed(2)}
	return t
}

func periodLabel(f Filter) string {
	if f.From.IsZero() && f.To.IsZero() {
		return "All time"
	}
	// To is exclusive
	return f.From.Format("2006-01-02") + " to " + f.To.AddDate(0, 0, -1).Format("2006-01-02")
}
