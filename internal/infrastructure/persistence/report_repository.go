package persistence

import (
	"context"

	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/report"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/gemline/backoffice/internal/domain/workforce"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.QueryRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

var _ report.QueryRepository = (*GormReportRepository)(nil)

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Sales returns completed-order revenue per store in [From, To)
func (r *GormReportRepository) Sales(ctx context.Context, f report.Filter) ([]report.SalesRow, error) {
	items := conn(ctx, r.db).Table("order_items").
		Select("order_id, SUM(quantity) AS qty").
		Group("order_id")

	q := conn(ctx, r.db).Table("orders o").
		Select(`
			s.id AS store_id,
			s.code AS store_code,
			s.name AS store_name,
			COUNT(o.id) AS order_count,
			COALESCE(SUM(oi.qty), 0) AS items_sold,
			COALESCE(SUM(o.total_amount), 0) AS revenue
		`).
		Joins("JOIN stores s ON s.id = o.store_id").
		Joins("LEFT JOIN (?) oi ON oi.order_id = o.id", items).
		Where("o.status = ?", trade.OrderStatusCompleted)
	if !f.From.IsZero() {
		q = q.Where("o.created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("o.created_at < ?", f.To)
	}
	if f.StoreID != nil {
		q = q.Where("o.store_id = ?", *f.StoreID)
	}

	var rows []report.SalesRow
	err := q.Group("s.id, s.code, s.name").Order("s.code").Scan(&rows).Error
	return rows, err
}

// Inventory returns stock rows with their valuation
func (r *GormReportRepository) Inventory(ctx context.Context, f report.Filter) ([]report.InventoryRow, error) {
	q := conn(ctx, r.db).Model(&inventory.InventoryItem{}).
		Select(`
			w.code AS warehouse_code,
			w.name AS warehouse_name,
			p.sku AS sku,
			p.name AS product_name,
			inventory_items.quantity AS quantity,
			p.reorder_level AS reorder_level,
			inventory_items.unit_cost AS unit_cost
		`).
		Joins("JOIN warehouses w ON w.id = inventory_items.warehouse_id").
		Joins("JOIN products p ON p.id = inventory_items.product_id")
	if f.StoreID != nil {
		q = q.Where("w.store_id = ?", *f.StoreID)
	}
	if f.WarehouseID != nil {
		q = q.Where("inventory_items.warehouse_id = ?", *f.WarehouseID)
	}
	if f.LowStockOnly {
		q = q.Where("inventory_items.quantity <= p.reorder_level")
	}

	var rows []report.InventoryRow
	if err := q.Order("w.code, p.sku").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].StockValue = rows[i].UnitCost.Mul(decimal.NewFromInt(int64(rows[i].Quantity))).Round(2)
	}
	return rows, nil
}

// Payroll returns the payroll of every employee for the month
func (r *GormReportRepository) Payroll(ctx context.Context, f report.Filter) ([]report.PayrollRow, error) {
	q := conn(ctx, r.db).Table("payrolls pr").
		Select(`
			u.username AS username,
			u.full_name AS full_name,
			u.role AS role,
			s.code AS store_code,
			pr.pay_type AS pay_type,
			pr.hours_worked AS hours_worked,
			pr.base_amount AS base_amount,
			pr.estimated_sales AS estimated_sales,
			pr.commission_amount AS commission_amount,
			pr.final_amount AS final_amount,
			pr.status AS status
		`).
		Joins("JOIN users u ON u.id = pr.user_id").
		Joins("JOIN stores s ON s.id = pr.store_id").
		Where("pr.month = ? AND pr.year = ?", f.Month, f.Year)
	if f.StoreID != nil {
		q = q.Where("pr.store_id = ?", *f.StoreID)
	}

	var rows []report.PayrollRow
	err := q.Order("s.code, u.full_name").Scan(&rows).Error
	return rows, err
}

// Attendance returns closed hours per employee with clock-in in [From, To)
func (r *GormReportRepository) Attendance(ctx context.Context, f report.Filter) ([]report.AttendanceRow, error) {
	q := conn(ctx, r.db).Table("attendance_records a").
		Select(`
			u.username AS username,
			u.full_name AS full_name,
			s.code AS store_code,
			COUNT(a.id) AS days,
			COALESCE(SUM(a.hours_worked), 0) AS hours
		`).
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("JOIN stores s ON s.id = a.store_id").
		Where("a.status = ?", workforce.AttendanceStatusClosed)
	if !f.From.IsZero() {
		q = q.Where("a.clock_in >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("a.clock_in < ?", f.To)
	}
	if f.StoreID != nil {
		q = q.Where("a.store_id = ?", *f.StoreID)
	}

	var rows []report.AttendanceRow
	err := q.Group("u.username, u.full_name, s.code").Order("s.code, u.full_name").Scan(&rows).Error
	return rows, err
}
