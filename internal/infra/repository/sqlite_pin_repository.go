package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KasumiMercury/flock-watch/internal/domain"
)

const pinSchema = `
CREATE TABLE IF NOT EXISTS pins (
	id          TEXT PRIMARY KEY,
	subject_id  TEXT NOT NULL,
	longitude   REAL NOT NULL,
	latitude    REAL NOT NULL,
	accelero_x  REAL NOT NULL,
	recorded_at INTEGER NOT NULL,
	raw_payload TEXT NOT NULL,
	dev_eui     TEXT NOT NULL DEFAULT '',
	device_name TEXT NOT NULL DEFAULT '',
	sats        INTEGER,
	transition  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_pins_recorded_at ON pins (recorded_at, id);
CREATE INDEX IF NOT EXISTS idx_pins_subject ON pins (subject_id, recorded_at);
`

const pinColumns = `id, subject_id, longitude, latitude, accelero_x, recorded_at,
	raw_payload, dev_eui, device_name, sats, transition`

// OpenSQLite opens the database at path and prepares the pins table.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// modernc serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, pinSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create pins table: %w", err)
	}

	return db, nil
}

type sqlitePinRepository struct {
	db *sql.DB
}

func NewSQLitePinRepository(db *sql.DB) domain.PinRepository {
	return &sqlitePinRepository{db: db}
}

func (r *sqlitePinRepository) Save(ctx context.Context, pin *domain.Pin) error {
	if err := validatePin(pin); err != nil {
		return err
	}

	var sats sql.NullInt64
	if pin.Satellites != nil {
		sats = sql.NullInt64{Int64: int64(*pin.Satellites), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO pins (`+pinColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pin.ID,
		pin.SubjectID,
		pin.Longitude,
		pin.Latitude,
		pin.AcceleroX,
		pin.RecordedAt.UTC().UnixNano(),
		pin.RawPayload,
		pin.DevEUI,
		pin.DeviceName,
		sats,
		pin.Transition.String(),
	)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPin(row rowScanner) (*domain.Pin, error) {
	var (
		pin        domain.Pin
		recordedAt int64
		sats       sql.NullInt64
		transition string
	)

	err := row.Scan(
		&pin.ID,
		&pin.SubjectID,
		&pin.Longitude,
		&pin.Latitude,
		&pin.AcceleroX,
		&recordedAt,
		&pin.RawPayload,
		&pin.DevEUI,
		&pin.DeviceName,
		&sats,
		&transition,
	)
	if err != nil {
		return nil, err
	}

	pin.RecordedAt = time.Unix(0, recordedAt).UTC()
	pin.Transition = domain.Transition(transition)
	if sats.Valid {
		n := int(sats.Int64)
		pin.Satellites = &n
	}

	return &pin, nil
}

func (r *sqlitePinRepository) FindAll(ctx context.Context) ([]*domain.Pin, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+pinColumns+` FROM pins ORDER BY recorded_at, id`)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	pins := []*domain.Pin{}
	for rows.Next() {
		pin, err := scanPin(rows)
		if err != nil {
			return nil, unavailable(err)
		}
		pins = append(pins, pin)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}

	return pins, nil
}

func (r *sqlitePinRepository) FindLatestBySubject(ctx context.Context, subjectID string) (*domain.Pin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pinColumns+` FROM pins
		WHERE subject_id = ? ORDER BY recorded_at DESC, id DESC LIMIT 1`, subjectID)

	pin, err := scanPin(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPinNotFound
		}
		return nil, unavailable(err)
	}
	return pin, nil
}

func (r *sqlitePinRepository) Delete(ctx context.Context, id string) (*domain.Pin, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	pin, err := scanPin(tx.QueryRowContext(ctx, `SELECT `+pinColumns+` FROM pins WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPinNotFound
		}
		return nil, unavailable(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pins WHERE id = ?`, id); err != nil {
		return nil, unavailable(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable(err)
	}

	return pin, nil
}

func (r *sqlitePinRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pins`)
	if err != nil {
		return 0, unavailable(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable(err)
	}
	return int(n), nil
}
