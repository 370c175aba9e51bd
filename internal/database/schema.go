package database

import (
	"context"
	"database/sql"
)

// statements is the canonical schema of the booking platform.  UUIDs
// are stored as CHAR(36); all DATETIME columns hold UTC.  seat_holds
// keeps one row per (session_id, seat_id); the unique key is what
// turns concurrent hold inserts into a single-winner race.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id CHAR(36) NOT NULL PRIMARY KEY,
		external_id BIGINT NULL UNIQUE,
		title VARCHAR(128) NOT NULL,
		slug VARCHAR(32) NULL,
		duration_minutes INT NOT NULL,
		rating DECIMAL(3,1) NOT NULL,
		poster_url VARCHAR(500) NULL,
		trailer_url VARCHAR(500) NULL,
		backdrop_url VARCHAR(500) NULL,
		description VARCHAR(512) NOT NULL,
		release_year INT NOT NULL,
		cast_list JSON NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'COMING_SOON',
		is_deleted TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id CHAR(36) NOT NULL PRIMARY KEY,
		external_id BIGINT NULL,
		name VARCHAR(64) NOT NULL,
		slug VARCHAR(32) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id CHAR(36) NOT NULL,
		genre_id CHAR(36) NOT NULL,
		PRIMARY KEY (movie_id, genre_id),
		FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE,
		FOREIGN KEY (genre_id) REFERENCES genres(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS halls (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		total_capacity INT NOT NULL,
		grid_rows INT NOT NULL,
		grid_cols INT NOT NULL,
		buffer_minutes INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS seat_types (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		description VARCHAR(64) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS technologies (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		type VARCHAR(64) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS hall_technologies (
		hall_id CHAR(36) NOT NULL,
		technology_id CHAR(36) NOT NULL,
		PRIMARY KEY (hall_id, technology_id),
		FOREIGN KEY (hall_id) REFERENCES halls(id) ON DELETE CASCADE,
		FOREIGN KEY (technology_id) REFERENCES technologies(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS seats (
		id CHAR(36) NOT NULL PRIMARY KEY,
		hall_id CHAR(36) NOT NULL,
		row_label VARCHAR(16) NOT NULL,
		seat_number INT NOT NULL,
		grid_x INT NOT NULL,
		grid_y INT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'FREE',
		seat_type_id CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_hall_grid (hall_id, grid_x, grid_y),
		UNIQUE KEY uniq_hall_seat (hall_id, row_label, seat_number),
		FOREIGN KEY (hall_id) REFERENCES halls(id) ON DELETE CASCADE,
		FOREIGN KEY (seat_type_id) REFERENCES seat_types(id)
	)`,
	`CREATE TABLE IF NOT EXISTS pricing (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS pricing_items (
		id CHAR(36) NOT NULL PRIMARY KEY,
		pricing_id CHAR(36) NOT NULL,
		seat_type_id CHAR(36) NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		day_of_week INT NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (pricing_id) REFERENCES pricing(id) ON DELETE CASCADE,
		FOREIGN KEY (seat_type_id) REFERENCES seat_types(id)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		movie_id CHAR(36) NOT NULL,
		hall_id CHAR(36) NOT NULL,
		pricing_id CHAR(36) NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'PLANNED',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_hall_start (hall_id, start_time),
		FOREIGN KEY (movie_id) REFERENCES movies(id),
		FOREIGN KEY (hall_id) REFERENCES halls(id),
		FOREIGN KEY (pricing_id) REFERENCES pricing(id)
	)`,
	`CREATE TABLE IF NOT EXISTS seat_holds (
		id CHAR(36) NOT NULL,
		session_id CHAR(36) NOT NULL,
		seat_id CHAR(36) NOT NULL,
		holder_token VARCHAR(64) NOT NULL,
		state VARCHAR(16) NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (session_id, seat_id),
		KEY idx_holder (holder_token),
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
		FOREIGN KEY (seat_id) REFERENCES seats(id) ON DELETE CASCADE
	)`,
}

// EnsureSchema creates any missing tables.  Statements are ordered so
// foreign-key targets exist before their referents.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
