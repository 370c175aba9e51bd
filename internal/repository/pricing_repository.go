package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// PricingRepo manages pricing plans and their items, and resolves the
// price of a seat type at a given instant.
type PricingRepo struct {
	db *sql.DB
}

// NewPricingRepo returns a new PricingRepo bound to the provided
// database.
func NewPricingRepo(db *sql.DB) *PricingRepo { return &PricingRepo{db: db} }

// CreatePlan inserts a pricing plan.
func (r *PricingRepo) CreatePlan(ctx context.Context, p *model.Pricing) error {
	const q = `INSERT INTO pricing (id, name) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID.String(), p.Name)
	return err
}

// GetPlan loads a pricing plan by id.  Returns ErrNotFound when the
// plan does not exist.
func (r *PricingRepo) GetPlan(ctx context.Context, id uuid.UUID) (*model.Pricing, error) {
	const q = `SELECT id, name, created_at, updated_at FROM pricing WHERE id = ?`
	var (
		p     model.Pricing
		rawID string
	)
	err := r.db.QueryRowContext(ctx, q, id.String()).Scan(&rawID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateItem inserts a pricing item for a plan.
func (r *PricingRepo) CreateItem(ctx context.Context, it *model.PricingItem) error {
	const q = `INSERT INTO pricing_items (id, pricing_id, seat_type_id, price_cents, day_of_week, start_time, end_time)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		it.ID.String(), it.PricingID.String(), it.SeatTypeID.String(), it.PriceCents,
		it.DayOfWeek, it.StartTime.UTC().Format(dbTime), it.EndTime.UTC().Format(dbTime))
	return err
}

// ListItems returns all items of a pricing plan.
func (r *PricingRepo) ListItems(ctx context.Context, pricingID uuid.UUID) ([]model.PricingItem, error) {
	const q = `SELECT id, pricing_id, seat_type_id, price_cents, day_of_week, start_time, end_time, created_at, updated_at
			   FROM pricing_items WHERE pricing_id = ?`
	rows, err := r.db.QueryContext(ctx, q, pricingID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.PricingItem
	for rows.Next() {
		var (
			it                      model.PricingItem
			rawID, rawPlan, rawType string
		)
		if err := rows.Scan(&rawID, &rawPlan, &rawType, &it.PriceCents, &it.DayOfWeek,
			&it.StartTime, &it.EndTime, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		if it.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		if it.PricingID, err = uuid.Parse(rawPlan); err != nil {
			return nil, err
		}
		if it.SeatTypeID, err = uuid.Parse(rawType); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// PriceFor looks up the price of a seat type under a plan at the
// given instant, matching the item whose ISO day of week and
// time-of-day window cover it.  Returns ErrNotFound when no item
// matches.
func (r *PricingRepo) PriceFor(ctx context.Context, pricingID, seatTypeID uuid.UUID, at time.Time) (uint32, error) {
	at = at.UTC()
	isoDay := int(at.Weekday())
	if isoDay == 0 {
		isoDay = 7
	}
	const q = `SELECT price_cents, start_time, end_time
			   FROM pricing_items
			   WHERE pricing_id = ? AND seat_type_id = ? AND day_of_week = ?`
	rows, err := r.db.QueryContext(ctx, q, pricingID.String(), seatTypeID.String(), isoDay)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	minutes := at.Hour()*60 + at.Minute()
	for rows.Next() {
		var (
			cents      uint32
			start, end time.Time
		)
		if err := rows.Scan(&cents, &start, &end); err != nil {
			return 0, err
		}
		startMin := start.UTC().Hour()*60 + start.UTC().Minute()
		endMin := end.UTC().Hour()*60 + end.UTC().Minute()
		if minutes >= startMin && minutes < endMin {
			return cents, nil
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNotFound
}
