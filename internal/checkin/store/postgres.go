package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"brigade/internal/checkin/models"
	"brigade/pkg/domain"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Postgres persists credentials in PostgreSQL.
// The conditional update relies on the version column: the UPDATE predicate
// includes the expected version, so a lost race affects zero rows and the
// transition never commits twice.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const credentialColumns = "id, code, valid_until, location, status, version, issued_at, updated_at"

func (s *Postgres) Insert(ctx context.Context, c *models.CheckinCode) error {
	query := `
		INSERT INTO checkin_codes (` + credentialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(c.ID),
		c.Code,
		c.ValidUntil,
		c.Location,
		string(c.Status),
		c.Version,
		c.IssuedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("check-in code must be unique: %w", ErrConflict)
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (s *Postgres) FindByCode(ctx context.Context, code string) (*models.CheckinCode, error) {
	query := `SELECT ` + credentialColumns + ` FROM checkin_codes WHERE code = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, code))
}

func (s *Postgres) FindByID(ctx context.Context, id domain.CodeID) (*models.CheckinCode, error) {
	query := `SELECT ` + credentialColumns + ` FROM checkin_codes WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

// UpdateStatus commits the transition only when the stored version still
// matches expectedVersion. Zero affected rows is disambiguated with a follow-up
// existence check: a missing row is ErrNotFound, a stale version ErrConflict.
func (s *Postgres) UpdateStatus(ctx context.Context, id domain.CodeID, expectedVersion int64, status models.Status, now time.Time) (*models.CheckinCode, error) {
	query := `
		UPDATE checkin_codes
		SET status = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND version = $2
		RETURNING ` + credentialColumns
	updated, err := s.scanOne(s.db.QueryRowContext(ctx, query,
		uuid.UUID(id), expectedVersion, string(status), now.UTC()))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM checkin_codes WHERE id = $1)`
	if err := s.db.QueryRowContext(ctx, checkQuery, uuid.UUID(id)).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check credential existence: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, fmt.Errorf("credential version changed: %w", ErrConflict)
}

func (s *Postgres) List(ctx context.Context, location string, limit int) ([]*models.CheckinCode, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM checkin_codes
		WHERE $1 = '' OR location = $1
		ORDER BY issued_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, location, limit)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.CheckinCode
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return out, nil
}

// DeleteExpiredBefore removes credentials whose validity ended before cutoff.
func (s *Postgres) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM checkin_codes WHERE valid_until < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired credentials: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired credentials rows: %w", err)
	}
	return int(rows), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row rowScanner) (*models.CheckinCode, error) {
	c, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanCredential(row rowScanner) (*models.CheckinCode, error) {
	var (
		id     uuid.UUID
		c      models.CheckinCode
		status string
	)
	if err := row.Scan(&id, &c.Code, &c.ValidUntil, &c.Location, &status, &c.Version, &c.IssuedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	c.ID = domain.CodeID(id)
	c.Status = models.Status(status)
	return &c, nil
}
