package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/base"
	"github.com/google/uuid"
)

// HistoryRepository архив решённых заявок
type HistoryRepository struct {
	*base.Repository
}

func NewHistoryRepository(db base.DBTX) *HistoryRepository {
	return &HistoryRepository{Repository: base.NewRepository(db)}
}

// Upsert сохраняет запись архива, повторная запись перезаписывает её
func (r *HistoryRepository) Upsert(ctx context.Context, req *model.BookingRequest) error {
	query := `
		INSERT INTO booking_requests_history (id, hall_name, booking_date, start_time, end_time, department,
			faculty_name, faculty_uid, reason, title, description, approval_request, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			hall_name = EXCLUDED.hall_name,
			booking_date = EXCLUDED.booking_date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			department = EXCLUDED.department,
			faculty_name = EXCLUDED.faculty_name,
			faculty_uid = EXCLUDED.faculty_uid,
			reason = EXCLUDED.reason,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			approval_request = EXCLUDED.approval_request,
			created_at = EXCLUDED.created_at,
			archived_at = NOW()
	`

	_, err := r.DB().Exec(
		ctx, query,
		req.ID,
		req.HallName,
		req.Date,
		req.StartTime,
		req.EndTime,
		req.Department,
		req.FacultyName,
		req.FacultyUID,
		req.Reason,
		req.Title,
		req.Description,
		req.ApprovalRequest,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert archived request: %w", err)
	}

	return nil
}

// GetByID получает запись архива по ID
func (r *HistoryRepository) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `SELECT ` + bookingColumns + ` FROM booking_requests_history WHERE id = $1`

	req, err := scanBookingRequest(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get archived request by id: %w", err)
	}

	return req, nil
}

// List получает записи архива под предикатом в порядке архивации
func (r *HistoryRepository) List(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error) {
	where := scopeWhere(scope)
	query := `SELECT ` + bookingColumns + ` FROM booking_requests_history ` + where.SQL() + ` ORDER BY seq`

	rows, err := r.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list archived requests: %w", err)
	}

	return collectBookingRequests(rows)
}
