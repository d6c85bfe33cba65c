package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/masjid-annur/dashboard-server-go/internal/model"
)

type DayCount struct {
	Day   model.Weekday `db:"day" json:"day"`
	Count int           `db:"count" json:"count"`
}

type KajianRepository interface {
	FindByID(ctx context.Context, id string) (*model.Kajian, error)
	FindAll(ctx context.Context) ([]model.Kajian, error)
	FindByDay(ctx context.Context, day model.Weekday) ([]model.Kajian, error)
	Create(ctx context.Context, params model.CreateKajianParams) (*model.Kajian, error)
	Update(ctx context.Context, id string, params model.UpdateKajianParams) (*model.Kajian, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByDay(ctx context.Context) ([]DayCount, error)
}

type kajianRepo struct {
	db sqlxDB
}

func NewKajianRepository(db *sqlx.DB) KajianRepository {
	return &kajianRepo{db: db}
}

// weekdayOrder sorts rows Senin-first rather than alphabetically.
const weekdayOrder = `array_position(ARRAY['Senin','Selasa','Rabu','Kamis','Jumat','Sabtu','Minggu']::text[], day)`

func (r *kajianRepo) FindByID(ctx context.Context, id string) (*model.Kajian, error) {
	var kajian model.Kajian
	err := r.db.GetContext(ctx, &kajian, `
		SELECT * FROM kajian WHERE id = $1
	`, id)
	return HandleNotFound(&kajian, err)
}

func (r *kajianRepo) FindAll(ctx context.Context) ([]model.Kajian, error) {
	var sessions []model.Kajian
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT * FROM kajian
		ORDER BY `+weekdayOrder+`, time_start
	`)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *kajianRepo) FindByDay(ctx context.Context, day model.Weekday) ([]model.Kajian, error) {
	var sessions []model.Kajian
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT * FROM kajian
		WHERE day = $1
		ORDER BY time_start
	`, day)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *kajianRepo) Create(ctx context.Context, params model.CreateKajianParams) (*model.Kajian, error) {
	var kajian model.Kajian
	err := r.db.GetContext(ctx, &kajian, `
		INSERT INTO kajian (id, day, ustaz, time_start, time_end, topic, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, uuid.NewString(), params.Day, params.Ustaz, params.TimeStart, params.TimeEnd, params.Topic, params.Image)
	if err != nil {
		return nil, err
	}
	return &kajian, nil
}

func (r *kajianRepo) Update(ctx context.Context, id string, params model.UpdateKajianParams) (*model.Kajian, error) {
	var kajian model.Kajian
	err := r.db.GetContext(ctx, &kajian, `
		UPDATE kajian SET
			day = $2,
			ustaz = $3,
			time_start = $4,
			time_end = $5,
			topic = $6,
			image = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Day, params.Ustaz, params.TimeStart, params.TimeEnd, params.Topic, params.Image)
	return HandleNotFound(&kajian, err)
}

func (r *kajianRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kajian WHERE id = $1`, id)
	return err
}

func (r *kajianRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM kajian`)
	return count, err
}

func (r *kajianRepo) CountByDay(ctx context.Context) ([]DayCount, error) {
	var counts []DayCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT day, COUNT(*) AS count FROM kajian
		GROUP BY day
		ORDER BY `+weekdayOrder+`
	`)
	if err != nil {
		return nil, err
	}
	return counts, nil
}
