package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, s := range []string{"sales", "Inventory", " payroll ", "attendance"} {
		_, err := ParseType(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseType("finance")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Equal(t, "xlsx", f.Extension())

	_, err = ParseFormat("docx")
	assert.Error(t, err)

	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}

func TestSalesTable(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []SalesRow{
		{StoreCode: "NYC01", StoreName: "Fifth Avenue", OrderCount: 3, ItemsSold: 5, Revenue: decimal.RequireFromString("1250.5")},
		{StoreCode: "BOS01", StoreName: "Newbury", OrderCount: 1, ItemsSold: 1, Revenue: decimal.NewFromInt(99)},
	}
	tbl := SalesTable(rows, Filter{From: from, To: from.AddDate(0, 1, 0)})

	assert.Equal(t, "2026-03-01 to 2026-03-31", tbl.Subtitle)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"NYC01", "Fifth Avenue", "3", "5", "1250.50"}, tbl.Rows[0])
	assert.Equal(t, []string{"Total", "", "4", "6", "1349.50"}, tbl.Totals)
	assert.Len(t, tbl.Columns, len(tbl.Totals))
}

func TestInventoryTable(t *testing.T) {
	rows := []InventoryRow{
		{WarehouseCode: "NYC01-WH", SKU: "RG-001", ProductName: "Solitaire ring", Quantity: 2, ReorderLevel: 3,
			UnitCost: decimal.NewFromInt(400), StockValue: decimal.NewFromInt(800)},
	}
	tbl := InventoryTable(rows, Filter{LowStockOnly: true})

	assert.True(t, rows[0].LowStock())
	assert.Equal(t, "At or below reorder level", tbl.Subtitle)
	assert.Equal(t, "800.00", tbl.Totals[6])
	assert.Len(t, tbl.Columns, len(tbl.Totals))
}

func TestPayrollTable(t *testing.T) {
	rows := []PayrollRow{
		{FullName: "Ann Lee", Role: "SA", StoreCode: "NYC01", PayType: "hourly",
			HoursWorked: decimal.RequireFromString("120.25"), FinalAmount: decimal.RequireFromString("2524.63"), Status: "pending"},
		{FullName: "Bo Chen", Role: "SM", StoreCode: "NYC01", PayType: "salaried", FinalAmount: decimal.NewFromInt(5600), Status: "pending"},
	}
	tbl := PayrollTable(rows, Filter{Month: 2, Year: 2026})

	assert.Equal(t, "February 2026", tbl.Subtitle)
	assert.Equal(t, "120.25", tbl.Rows[0][4])
	assert.Equal(t, "8124.63", tbl.Totals[8])
	assert.Len(t, tbl.Columns, len(tbl.Totals))
}

func TestAttendanceTable(t *testing.T) {
	tbl := AttendanceTable([]AttendanceRow{
		{FullName: "Ann Lee", Username: "ann", StoreCode: "NYC01", Days: 2, Hours: decimal.RequireFromString("15.5")},
	}, Filter{})

	assert.Equal(t, "All time", tbl.Subtitle)
	assert.Equal(t, "15.50", tbl.Totals[4])
}
