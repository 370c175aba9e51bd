package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// TechnologyRepo manages projection and sound technologies and their
// assignment to halls.
type TechnologyRepo struct {
	db *sql.DB
}

// NewTechnologyRepo returns a new TechnologyRepo bound to the provided
// database.
func NewTechnologyRepo(db *sql.DB) *TechnologyRepo { return &TechnologyRepo{db: db} }

// Create inserts a new technology.
func (r *TechnologyRepo) Create(ctx context.Context, t *model.Technology) error {
	const q = `INSERT INTO technologies (id, name, type) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, t.ID.String(), t.Name, t.Type)
	return err
}

// List returns all technologies ordered by name.
func (r *TechnologyRepo) List(ctx context.Context) ([]model.Technology, error) {
	const q = `SELECT id, name, type, created_at, updated_at FROM technologies ORDER BY name`
	return r.queryTechnologies(ctx, q)
}

// AssignToHall links a technology to a hall.  Assigning the same pair
// twice is a no-op.
func (r *TechnologyRepo) AssignToHall(ctx context.Context, hallID, technologyID uuid.UUID) error {
	const q = `INSERT IGNORE INTO hall_technologies (hall_id, technology_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, hallID.String(), technologyID.String())
	return err
}

// ListByHall returns the technologies assigned to a hall.
func (r *TechnologyRepo) ListByHall(ctx context.Context, hallID uuid.UUID) ([]model.Technology, error) {
	const q = `SELECT t.id, t.name, t.type, t.created_at, t.updated_at
			   FROM technologies t
			   JOIN hall_technologies ht ON ht.technology_id = t.id
			   WHERE ht.hall_id = ?
			   ORDER BY t.name`
	return r.queryTechnologies(ctx, q, hallID.String())
}

func (r *TechnologyRepo) queryTechnologies(ctx context.Context, q string, args ...any) ([]model.Technology, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Technology
	for rows.Next() {
		var (
			t     model.Technology
			rawID string
		)
		if err := rows.Scan(&rawID, &t.Name, &t.Type, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if t.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
