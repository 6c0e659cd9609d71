package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id::text, hall_name, booking_date, start_time, end_time, department,
		faculty_name, faculty_uid, reason, title, description, approval_request, created_at`

type BookingRequestRepository struct {
	*base.Repository
}

func NewBookingRequestRepository(db base.DBTX) *BookingRequestRepository {
	return &BookingRequestRepository{Repository: base.NewRepository(db)}
}

// Create создаёт новую заявку, ID генерируется здесь, created_at в БД
func (r *BookingRequestRepository) Create(ctx context.Context, req *model.BookingRequest) error {
	query := `
		INSERT INTO booking_requests (id, hall_name, booking_date, start_time, end_time, department,
			faculty_name, faculty_uid, reason, title, description, approval_request)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	id := uuid.NewString()
	err := r.QueryRow(
		ctx, query,
		id,
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
	).Scan(&req.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking request: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID получает заявку по ID
func (r *BookingRequestRepository) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate получает заявку и блокирует строку до конца транзакции
func (r *BookingRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.BookingRequest, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *BookingRequestRepository) get(ctx context.Context, id, lock string) (*model.BookingRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		// Невалидный uuid не может существовать в таблице
		return nil, nil
	}

	query := `SELECT ` + bookingColumns + ` FROM booking_requests WHERE id = $1 ` + lock

	req, err := scanBookingRequest(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking request by id: %w", err)
	}

	return req, nil
}

// UpdateStatus обновляет статус заявки
func (r *BookingRequestRepository) UpdateStatus(ctx context.Context, id string, status model.ApprovalStatus) error {
	query := `
		UPDATE booking_requests
		SET approval_request = $1
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking request status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update booking request status: %s not found", id)
	}

	return nil
}

// List получает заявки под предикатом в порядке вставки
func (r *BookingRequestRepository) List(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error) {
	where := scopeWhere(scope)
	query := `SELECT ` + bookingColumns + ` FROM booking_requests ` + where.SQL() + ` ORDER BY seq`

	rows, err := r.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list booking requests: %w", err)
	}

	return collectBookingRequests(rows)
}

// scopeWhere переводит предикат роли в условия WHERE
func scopeWhere(scope model.Scope) *base.Where {
	where := &base.Where{}
	if scope.FacultyUID != "" {
		where.Add("faculty_uid = ?", scope.FacultyUID)
	}
	if scope.Department != "" {
		where.Add("department = ?", scope.Department)
	}
	if scope.HallName != "" {
		where.Add("hall_name = ?", scope.HallName)
	}
	if len(scope.Statuses) > 0 {
		statuses := make([]string, 0, len(scope.Statuses))
		for _, s := range scope.Statuses {
			statuses = append(statuses, string(s))
		}
		where.AddAny("approval_request", statuses)
	}
	return where
}

func scanBookingRequest(row pgx.Row) (*model.BookingRequest, error) {
	var req model.BookingRequest
	err := row.Scan(
		&req.ID,
		&req.HallName,
		&req.Date,
		&req.StartTime,
		&req.EndTime,
		&req.Department,
		&req.FacultyName,
		&req.FacultyUID,
		&req.Reason,
		&req.Title,
		&req.Description,
		&req.ApprovalRequest,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func collectBookingRequests(rows pgx.Rows) ([]*model.BookingRequest, error) {
	defer rows.Close()

	reqs := make([]*model.BookingRequest, 0)
	for rows.Next() {
		req, err := scanBookingRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking request: %w", err)
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking requests: %w", err)
	}

	return reqs, nil
}
