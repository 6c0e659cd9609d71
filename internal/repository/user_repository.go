package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const userColumns = `uid, role, department, hall, name, telegram_chat_id`

// UserRepository профили пользователей
type UserRepository struct {
	*base.Repository
}

func NewUserRepository(db base.DBTX) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(db)}
}

// GetByUID получает профиль по uid
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	return r.getOne(ctx, "get user by uid", `WHERE uid = $1`, uid)
}

// GetByTelegramChatID получает профиль по привязанному чату Telegram
func (r *UserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.UserProfile, error) {
	return r.getOne(ctx, "get user by telegram chat", `WHERE telegram_chat_id = $1`, chatID)
}

// FindHeadOfDepartment получает заведующего кафедрой
func (r *UserRepository) FindHeadOfDepartment(ctx context.Context, department string) (*model.UserProfile, error) {
	return r.getOne(ctx, "find head of department", `WHERE role = 'hod' AND department = $1 ORDER BY uid LIMIT 1`, department)
}

// ListHallManagers получает заведующих залом
func (r *UserRepository) ListHallManagers(ctx context.Context, hall string) ([]*model.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'hallmanager' AND hall = $1 ORDER BY uid`

	rows, err := r.Query(ctx, query, hall)
	if err != nil {
		return nil, fmt.Errorf("list hall managers: %w", err)
	}
	defer rows.Close()

	var users []*model.UserProfile
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hall managers: %w", err)
	}

	return users, nil
}

func (r *UserRepository) getOne(ctx context.Context, op, cond string, arg any) (*model.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + cond

	user, err := scanUser(r.QueryRow(ctx, query, arg))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*model.UserProfile, error) {
	var user model.UserProfile
	err := row.Scan(
		&user.UID,
		&user.Role,
		&user.Department,
		&user.Hall,
		&user.Name,
		&user.TelegramChatID,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
