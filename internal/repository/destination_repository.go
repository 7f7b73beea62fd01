package repository

import (
	"context"
	"fmt"

	"tourbook/internal/model"

	"github.com/jmoiron/sqlx"
)

// DestinationRepository обеспечивает доступ к направлениям.
type DestinationRepository struct {
	db *sqlx.DB
}

// NewDestinationRepository создает новый репозиторий направлений.
func NewDestinationRepository(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

// FindAll возвращает все направления, новые первыми.
func (r *DestinationRepository) FindAll(ctx context.Context) ([]model.Destination, error) {
	destinations := []model.Destination{}
	err := r.db.SelectContext(ctx, &destinations,
		"SELECT id, name, COALESCE(image_url, '') AS image_url, created_at FROM destinations ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка направлений: %w", err)
	}
	return destinations, nil
}
