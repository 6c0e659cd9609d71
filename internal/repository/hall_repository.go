package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/base"
)

// HallRepository каталог залов
type HallRepository struct {
	*base.Repository
}

func NewHallRepository(db base.DBTX) *HallRepository {
	return &HallRepository{Repository: base.NewRepository(db)}
}

// GetByName получает зал по названию
func (r *HallRepository) GetByName(ctx context.Context, name string) (*model.Hall, error) {
	query := `SELECT name, location FROM halls WHERE name = $1`

	var hall model.Hall
	err := r.QueryRow(ctx, query, name).Scan(&hall.Name, &hall.Location)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get hall by name: %w", err)
	}

	return &hall, nil
}

// List получает все залы
func (r *HallRepository) List(ctx context.Context) ([]*model.Hall, error) {
	rows, err := r.Query(ctx, `SELECT name, location FROM halls ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}
	defer rows.Close()

	halls := make([]*model.Hall, 0)
	for rows.Next() {
		var hall model.Hall
		if err := rows.Scan(&hall.Name, &hall.Location); err != nil {
			return nil, fmt.Errorf("scan hall: %w", err)
		}
		halls = append(halls, &hall)
	}

	return halls, rows.Err()
}
