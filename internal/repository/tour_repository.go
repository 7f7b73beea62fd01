package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tourbook/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TourRepository обеспечивает доступ к турам вместе с их направлениями.
type TourRepository struct {
	db *sqlx.DB
}

// NewTourRepository создает новый репозиторий туров.
func NewTourRepository(db *sqlx.DB) *TourRepository {
	return &TourRepository{db: db}
}

// Цена читается как текст: в разных выгрузках колонка бывает и числом, и строкой с символом валюты.
const tourSelect = `SELECT t.id, t.name, t.destination_id, COALESCE(t.location, '') AS location,
	t.price::text AS price, t.date, COALESCE(t.max_people, 0) AS max_people,
	COALESCE(t.duration, 0) AS duration, COALESCE(t.description, '') AS description,
	t.services, t.created_at,
	d.id AS dest_id, d.name AS dest_name, d.image_url AS dest_image_url, d.created_at AS dest_created_at
	FROM tours t
	LEFT JOIN destinations d ON d.id = t.destination_id`

type tourRow struct {
	ID            uuid.UUID      `db:"id"`
	Name          string         `db:"name"`
	DestinationID uuid.NullUUID  `db:"destination_id"`
	Location      string         `db:"location"`
	Price         sql.NullString `db:"price"`
	Date          sql.NullTime   `db:"date"`
	MaxPeople     int            `db:"max_people"`
	Duration      int            `db:"duration"`
	Description   string         `db:"description"`
	Services      pq.StringArray `db:"services"`
	CreatedAt     sql.NullTime   `db:"created_at"`
	DestID        uuid.NullUUID  `db:"dest_id"`
	DestName      sql.NullString `db:"dest_name"`
	DestImageURL  sql.NullString `db:"dest_image_url"`
	DestCreatedAt sql.NullTime   `db:"dest_created_at"`
}

func (r tourRow) toModel() model.Tour {
	t := model.Tour{
		ID:          r.ID,
		Name:        r.Name,
		Location:    r.Location,
		MaxPeople:   r.MaxPeople,
		Duration:    r.Duration,
		Description: r.Description,
		Services:    []string(r.Services),
		CreatedAt:   r.CreatedAt.Time,
	}
	if r.Date.Valid {
		t.Date = r.Date.Time
	}
	if r.Price.Valid {
		t.Price = r.Price.String
	}
	if r.DestinationID.Valid {
		id := r.DestinationID.UUID
		t.DestinationID = &id
	}
	// Направление присоединяется только если оно существует и прошло фильтр.
	if r.DestID.Valid {
		t.Destination = &model.Destination{
			ID:        r.DestID.UUID,
			Name:      r.DestName.String,
			ImageURL:  r.DestImageURL.String,
			CreatedAt: r.DestCreatedAt.Time,
		}
	}
	return t
}

// FindAll возвращает туры, новые первыми. Если задан destination, направление присоединяется
// только при частичном совпадении имени без учета регистра; у остальных туров Destination == nil.
func (r *TourRepository) FindAll(ctx context.Context, destination string) ([]model.Tour, error) {
	query := tourSelect
	args := []interface{}{}
	if destination != "" {
		query += " AND d.name ILIKE ?"
		args = append(args, "%"+strings.ToLower(destination)+"%")
	}
	query += " ORDER BY t.created_at DESC"
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	rows := []tourRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка при получении списка туров: %w", err)
	}
	tours := make([]model.Tour, 0, len(rows))
	for _, row := range rows {
		tours = append(tours, row.toModel())
	}
	return tours, nil
}

// GetByID возвращает тур по идентификатору.
func (r *TourRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tour, error) {
	var row tourRow
	err := r.db.GetContext(ctx, &row, tourSelect+" WHERE t.id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении тура %s: %w", id, err)
	}
	t := row.toModel()
	return &t, nil
}
