package workforce

import (
	"context"
	"errors"
	"time"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttendanceService records clock-ins and clock-outs
type AttendanceService struct {
	attendanceRepo workforce.AttendanceRepository
	shiftRepo      workforce.ShiftRepository
	txManager      shared.TxManager
	logger         *zap.Logger
	now            func() time.Time
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo workforce.AttendanceRepository,
	shiftRepo workforce.ShiftRepository,
	txManager shared.TxManager,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		txManager:      txManager,
		logger:         logger,
		now:            time.Now,
	}
}

// ClockIn opens a record for the caller at their store and links the shift
// scheduled for this moment, if there is one
func (s *AttendanceService) ClockIn(ctx context.Context, actor identity.Actor) (*AttendanceResponse, error) {
	if actor.StoreID == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "User is not assigned to a store")
	}
	open, err := s.attendanceRepo.FindOpenByUser(ctx, actor.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if open != nil {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Already clocked in since "+open.ClockIn.Format(time.RFC3339))
	}

	at := s.now()
	var shiftID *uuid.UUID
	shift, err := s.shiftRepo.FindCurrent(ctx, actor.UserID, at)
	switch {
	case err == nil && shift.StoreID == *actor.StoreID:
		shiftID = &shift.ID
	case err != nil && !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	record, err := workforce.ClockIn(actor.UserID, *actor.StoreID, shiftID, at)
	if err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("Clocked in",
		zap.String("user_id", actor.UserID.String()),
		zap.Bool("on_shift", shiftID != nil))

	response := ToAttendanceResponse(record)
	return &response, nil
}

// ClockOut closes the caller's open record and completes the linked shift
func (s *AttendanceService) ClockOut(ctx context.Context, actor identity.Actor) (*AttendanceResponse, error) {
	var record *workforce.AttendanceRecord
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.attendanceRepo.FindOpenByUser(ctx, actor.UserID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(shared.ErrInvalidState.Code, "Not clocked in")
		}
		if err != nil {
			return err
		}
		if err := record.Close(s.now()); err != nil {
			return err
		}
		if err := s.attendanceRepo.Save(ctx, record); err != nil {
			return err
		}
		if record.ShiftID == nil {
			return nil
		}
		shift, err := s.shiftRepo.FindByID(ctx, *record.ShiftID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		shift.MarkCompleted()
		return s.shiftRepo.Save(ctx, shift)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Clocked out",
		zap.String("user_id", actor.UserID.String()),
		zap.String("hours", record.HoursWorked.StringFixed(2)))

	response := ToAttendanceResponse(record)
	return &response, nil
}

// Correct rewrites the times of a record. Managers only fix records of
// their own store.
func (s *AttendanceService) Correct(ctx context.Context, actor identity.Actor, id uuid.UUID, req CorrectAttendanceRequest) (*AttendanceResponse, error) {
	record, err := s.attendanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStore(record.StoreID); err != nil {
		return nil, err
	}
	if err := record.Correct(req.ClockIn, req.ClockOut, req.Notes); err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("Attendance corrected",
		zap.String("attendance_id", record.ID.String()),
		zap.String("corrected_by", actor.UserID.String()),
		zap.String("hours", record.HoursWorked.StringFixed(2)))

	response := ToAttendanceResponse(record)
	return &response, nil
}

// List returns attendance records. Without attendance:read the caller only
// sees their own.
func (s *AttendanceService) List(ctx context.Context, actor identity.Actor, filter AttendanceListFilter) ([]AttendanceResponse, int64, error) {
	f := filter.PageQuery.Filter().With("status", filter.Status)
	if filter.OrderBy == "" {
		f.OrderBy = "clock_in"
	}

	if actor.Can(identity.PermAttendanceRead) {
		storeID, err := actor.ScopeStore(filter.StoreID)
		if err != nil {
			return nil, 0, err
		}
		if storeID != nil {
			f = f.With("store_id", *storeID)
		}
		if filter.UserID != nil {
			f = f.With("user_id", *filter.UserID)
		}
	} else {
		if filter.UserID != nil && *filter.UserID != actor.UserID {
			return nil, 0, shared.NewDomainError(shared.ErrForbidden.Code, "Only your own attendance is visible")
		}
		f = f.With("user_id", actor.UserID)
	}
	if filter.From != nil {
		f = f.With("from", *filter.From)
	}
	if filter.To != nil {
		f = f.With("to", filter.To.AddDate(0, 0, 1))
	}

	records, err := s.attendanceRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.attendanceRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AttendanceResponse, len(records))
	for i := range records {
		out[i] = ToAttendanceResponse(&records[i])
	}
	return out, total, nil
}
