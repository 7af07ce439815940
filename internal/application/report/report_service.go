// Package report serves the sales, inventory, payroll and attendance reports
// as JSON, downloadable files and archived objects.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/domain/report"
	"github.com/gemline/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// RendererSource looks up the renderer of an export format
type RendererSource interface {
	Renderer(f report.Format) (report.Renderer, error)
}

// Archive stores rendered exports and hands out temporary download links
type Archive interface {
	Key(name string) string
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignGet(ctx context.Context, key string) (string, time.Time, error)
}

// ErrArchiveUnavailable is returned when no object storage is configured
var ErrArchiveUnavailable = shared.NewDomainError("ARCHIVE_UNAVAILABLE", "Report archiving is not configured")

// ErrReportTooLarge is returned when an export exceeds the configured row cap
var ErrReportTooLarge = shared.NewDomainError("REPORT_TOO_LARGE", "Report has too many rows, narrow the filter")

// Service builds reports
type Service struct {
	queries   report.QueryRepository
	renderers RendererSource
	archive   Archive
	maxRows   int
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a report Service. archive may be nil, in which case
// Archive fails with ErrArchiveUnavailable. maxRows <= 0 disables the cap.
func NewService(queries report.QueryRepository, renderers RendererSource, archive Archive, maxRows int, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		queries:   queries,
		renderers: renderers,
		archive:   archive,
		maxRows:   maxRows,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// built is a report fetched and laid out
type built struct {
	typ    report.Type
	filter report.Filter
	rows   interface{}
	count  int
	table  *report.Table
}

// Query returns the report rows as JSON-ready data
func (s *Service) Query(ctx context.Context, actor identity.Actor, typ report.Type, q Query) (*Result, error) {
	b, err := s.build(ctx, actor, typ, q)
	if err != nil {
		return nil, err
	}
	return &Result{
		Type:     string(b.typ),
		Title:    b.table.Title,
		Subtitle: b.table.Subtitle,
		Count:    b.count,
		Rows:     b.rows,
	}, nil
}

// Export renders the report into a file of the requested format
func (s *Service) Export(ctx context.Context, actor identity.Actor, typ report.Type, q Query) (*File, error) {
	format, err := report.ParseFormat(q.Format)
	if err != nil {
		return nil, err
	}
	if format == report.FormatJSON {
		return nil, shared.NewDomainError("INVALID_REPORT_FORMAT", "Export format must be csv, xlsx or pdf")
	}
	renderer, err := s.renderers.Renderer(format)
	if err != nil {
		return nil, err
	}

	b, err := s.build(ctx, actor, typ, q)
	if err != nil {
		return nil, err
	}
	if s.maxRows > 0 && b.count > s.maxRows {
		return nil, ErrReportTooLarge
	}
	b.table.GeneratedAt = s.now().In(s.loc)

	data, err := renderer.Render(ctx, b.table)
	if err != nil {
		return nil, fmt.Errorf("render %s report as %s: %w", typ, format, err)
	}
	s.logger.Info("Report exported",
		zap.String("type", string(typ)),
		zap.String("format", string(format)),
		zap.Int("rows", b.count),
		zap.Int("bytes", len(data)))

	return &File{
		Name:        fileName(b, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Archive renders the report and stores it in object storage
func (s *Service) Archive(ctx context.Context, actor identity.Actor, typ report.Type, q Query) (*ArchiveResponse, error) {
	if s.archive == nil {
		return nil, ErrArchiveUnavailable
	}
	file, err := s.Export(ctx, actor, typ, q)
	if err != nil {
		return nil, err
	}

	key := s.archive.Key(fmt.Sprintf("%s/%s-%s", typ, s.now().UTC().Format("20060102T150405Z"), file.Name))
	if err := s.archive.Put(ctx, key, file.ContentType, file.Data); err != nil {
		return nil, fmt.Errorf("archive report: %w", err)
	}
	url, expires, err := s.archive.PresignGet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign report: %w", err)
	}
	s.logger.Info("Report archived", zap.String("key", key), zap.Int("bytes", len(file.Data)))

	return &ArchiveResponse{Key: key, URL: url, ExpiresAt: expires, Size: len(file.Data)}, nil
}

func (s *Service) build(ctx context.Context, actor identity.Actor, typ report.Type, q Query) (*built, error) {
	if err := actor.Require(identity.PermReportRead); err != nil {
		return nil, err
	}
	storeID, err := actor.ScopeStore(q.StoreID)
	if err != nil {
		return nil, err
	}
	f := report.Filter{StoreID: storeID, WarehouseID: q.WarehouseID, LowStockOnly: q.LowStock}

	b := &built{typ: typ}
	switch typ {
	case report.TypeSales:
		f.From, f.To = s.window(q)
		rows, err := s.queries.Sales(ctx, f)
		if err != nil {
			return nil, err
		}
		b.rows, b.count, b.table = rows, len(rows), report.SalesTable(rows, f)
	case report.TypeInventory:
		rows, err := s.queries.Inventory(ctx, f)
		if err != nil {
			return nil, err
		}
		b.rows, b.count, b.table = rows, len(rows), report.InventoryTable(rows, f)
	case report.TypePayroll:
		period, err := s.period(q)
		if err != nil {
			return nil, err
		}
		f.Month, f.Year = period.Month, period.Year
		rows, err := s.queries.Payroll(ctx, f)
		if err != nil {
			return nil, err
		}
		b.rows, b.count, b.table = rows, len(rows), report.PayrollTable(rows, f)
	case report.TypeAttendance:
		f.From, f.To = s.window(q)
		rows, err := s.queries.Attendance(ctx, f)
		if err != nil {
			return nil, err
		}
		b.rows, b.count, b.table = rows, len(rows), report.AttendanceTable(rows, f)
	default:
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", "Unknown report type "+string(typ))
	}
	b.filter = f
	return b, nil
}

// window turns the inclusive from/to dates into a half-open range in the
// business timezone, defaulting to the current month
func (s *Service) window(q Query) (time.Time, time.Time) {
	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)
	if q.From != nil {
		from = time.Date(q.From.Year(), q.From.Month(), q.From.Day(), 0, 0, 0, 0, s.loc)
	}
	if q.To != nil {
		to = time.Date(q.To.Year(), q.To.Month(), q.To.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	}
	return from, to
}

// period defaults to the previous month, the one payroll was last run for
func (s *Service) period(q Query) (payroll.Period, error) {
	if q.Month == 0 && q.Year == 0 {
		return payroll.PreviousPeriod(s.now().In(s.loc)), nil
	}
	year := q.Year
	if year == 0 {
		year = s.now().In(s.loc).Year()
	}
	return payroll.NewPeriod(q.Month, year)
}

func fileName(b *built, format report.Format) string {
	var stamp string
	switch b.typ {
	case report.TypePayroll:
		stamp = fmt.Sprintf("%04d-%02d", b.filter.Year, b.filter.Month)
	case report.TypeInventory:
		stamp = "stock"
		if b.filter.LowStockOnly {
			stamp = "low-stock"
		}
	default:
		stamp = b.filter.From.Format("20060102") + "-" + b.filter.To.AddDate(0, 0, -1).Format("20060102")
	}
	return fmt.Sprintf("%s-%s.%s", b.typ, stamp, format.Extension())
}
