package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// MovieRepo manages persistence for movies and their genre links.
// The cast list is stored as a JSON column.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the provided database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// Create inserts a new movie.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	cast, err := json.Marshal(m.Cast)
	if err != nil {
		return err
	}
	const q = `INSERT INTO movies
			   (id, external_id, title, slug, duration_minutes, rating, poster_url, trailer_url, backdrop_url,
				description, release_year, cast_list, status, is_deleted)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		m.ID.String(), m.ExternalID, m.Title, m.Slug, m.DurationMinutes, m.Rating,
		m.PosterURL, m.TrailerURL, m.BackdropURL, m.Description, m.ReleaseYear,
		string(cast), string(m.Status), m.IsDeleted)
	return err
}

// GetByID loads a movie by its identifier.  Soft-deleted movies are
// treated as absent.  Returns ErrNotFound when no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	const q = `SELECT id, external_id, title, slug, duration_minutes, rating, poster_url, trailer_url, backdrop_url,
					  description, release_year, cast_list, status, is_deleted, created_at, updated_at
			   FROM movies WHERE id = ? AND is_deleted = 0`
	row := r.db.QueryRowContext(ctx, q, id.String())
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

// List returns all non-deleted movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, external_id, title, slug, duration_minutes, rating, poster_url, trailer_url, backdrop_url,
					  description, release_year, cast_list, status, is_deleted, created_at, updated_at
			   FROM movies WHERE is_deleted = 0 ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var movies []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// SoftDelete marks a movie as deleted without removing the row, so
// historical sessions keep a valid reference.
func (r *MovieRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE movies SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_deleted = 0`
	res, err := r.db.ExecContext(ctx, q, id.String())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateGenre inserts a genre.
func (r *MovieRepo) CreateGenre(ctx context.Context, g *model.Genre) error {
	const q = `INSERT INTO genres (id, external_id, name, slug) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, g.ID.String(), g.ExternalID, g.Name, g.Slug)
	return err
}

// LinkGenres replaces the genre set of a movie inside one
// transaction.
func (r *MovieRepo) LinkGenres(ctx context.Context, movieID uuid.UUID, genreIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = ?`, movieID.String()); err != nil {
		return err
	}
	if len(genreIDs) > 0 {
		query := `INSERT INTO movie_genres (movie_id, genre_id) VALUES `
		args := make([]interface{}, 0, len(genreIDs)*2)
		for i, gid := range genreIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, movieID.String(), gid.String())
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func scanMovie(sc scanner) (*model.Movie, error) {
	var (
		m      model.Movie
		rawID  string
		cast   []byte
		status string
	)
	if err := sc.Scan(&rawID, &m.ExternalID, &m.Title, &m.Slug, &m.DurationMinutes, &m.Rating,
		&m.PosterURL, &m.TrailerURL, &m.BackdropURL, &m.Description, &m.ReleaseYear,
		&cast, &status, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if m.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if len(cast) > 0 {
		if err := json.Unmarshal(cast, &m.Cast); err != nil {
			return nil, err
		}
	}
	m.Status = model.MovieStatus(status)
	return &m, nil
}
