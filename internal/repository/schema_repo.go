package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"office_climate/internal/models"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SchemaSQLite struct {
	db *sql.DB
}

func NewSchemaSQLite(db *sql.DB) *SchemaSQLite {
	return &SchemaSQLite{db: db}
}

// Ensure implementation of SchemaRepo interface at compile time.
var _ SchemaRepo = (*SchemaSQLite)(nil)

const (
	schemaColumns = `id, name, description, in_office_temp, out_of_office_temp, is_active`

	listSchemasSQL     = `SELECT ` + schemaColumns + ` FROM schemas ORDER BY name_key, id`
	selectSchemaSQL    = `SELECT ` + schemaColumns + ` FROM schemas WHERE id = ?`
	selectActiveIDSQL  = `SELECT id FROM schemas WHERE is_active = 1 LIMIT 1`
	insertSchemaSQL    = `INSERT INTO schemas (name, name_key, description, in_office_temp, out_of_office_temp) VALUES (?, ?, ?, ?, ?)`
	updateSchemaSQL    = `UPDATE schemas SET name = ?, name_key = ?, description = ?, in_office_temp = ?, out_of_office_temp = ? WHERE id = ?`
	deleteSchemaSQL    = `DELETE FROM schemas WHERE id = ?`
	clearActiveSQL     = `UPDATE schemas SET is_active = 0 WHERE is_active != 0`
	setActiveSQL       = `UPDATE schemas SET is_active = 1 WHERE id = ?`
	selectIntervalsSQL = `
		SELECT id, day_of_week, start_time_minutes, end_time_minutes
		FROM schema_intervals
		WHERE schema_id = ?
		ORDER BY day_of_week, start_time_minutes
	`
	deleteIntervalsSQL = `DELETE FROM schema_intervals WHERE schema_id = ?`
	insertIntervalSQL  = `
		INSERT INTO schema_intervals (schema_id, day_of_week, start_time_minutes, end_time_minutes)
		VALUES (?, ?, ?, ?)
	`
)

// List returns all schemas without intervals, ordered by name.
func (r *SchemaSQLite) List(ctx context.Context) ([]models.Schema, error) {
	rows, err := r.db.QueryContext(ctx, listSchemasSQL)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	defer rows.Close()

	out := make([]models.Schema, 0, 8)
	for rows.Next() {
		s, err := scanSchema(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the schema with its intervals, or ErrSchemaNotFound.
func (r *SchemaSQLite) GetByID(ctx context.Context, id int64) (*models.SchemaWithIntervals, error) {
	return loadSchema(ctx, r.db, id)
}

// GetActive returns the active schema, or (nil, nil) when none is active.
func (r *SchemaSQLite) GetActive(ctx context.Context) (*models.SchemaWithIntervals, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, selectActiveIDSQL).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select active schema: %w", err)
	}
	return loadSchema(ctx, r.db, id)
}

// Create inserts the schema and its intervals in one transaction.
func (r *SchemaSQLite) Create(ctx context.Context, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	var created *models.SchemaWithIntervals
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertSchemaSQL,
			in.Name, nameKey(in.Name), in.Description, in.InOfficeTemperature, in.OutOfOfficeTemperature)
		if err != nil {
			return mapConstraintErr(fmt.Errorf("insert schema %q: %w", in.Name, err))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id for schema %q: %w", in.Name, err)
		}
		if err := insertIntervals(ctx, tx, id, in.Intervals); err != nil {
			return err
		}
		created, err = loadSchema(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces the schema fields and its whole interval set in one transaction,
// so readers never see the schema between the delete and the reinsert.
func (r *SchemaSQLite) Update(ctx context.Context, id int64, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	var updated *models.SchemaWithIntervals
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateSchemaSQL,
			in.Name, nameKey(in.Name), in.Description, in.InOfficeTemperature, in.OutOfOfficeTemperature, id)
		if err != nil {
			return mapConstraintErr(fmt.Errorf("update schema %d: %w", id, err))
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected for schema %d: %w", id, err)
		} else if n == 0 {
			return ErrSchemaNotFound
		}
		if _, err := tx.ExecContext(ctx, deleteIntervalsSQL, id); err != nil {
			return fmt.Errorf("delete intervals of schema %d: %w", id, err)
		}
		if err := insertIntervals(ctx, tx, id, in.Intervals); err != nil {
			return err
		}
		updated, err = loadSchema(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a schema; its intervals go with it via ON DELETE CASCADE.
// Deleting the active schema leaves no schema active.
func (r *SchemaSQLite) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteSchemaSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete schema %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for schema %d: %w", id, err)
	}
	return n > 0, nil
}

// SetActive clears the active flag and sets it on id in one transaction.
// A nil id only clears. An unknown id rolls back and returns ErrSchemaNotFound,
// leaving the previous active schema untouched.
func (r *SchemaSQLite) SetActive(ctx context.Context, id *int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, clearActiveSQL); err != nil {
			return fmt.Errorf("clear active schema: %w", err)
		}
		if id == nil {
			return nil
		}
		res, err := tx.ExecContext(ctx, setActiveSQL, *id)
		if err != nil {
			return fmt.Errorf("activate schema %d: %w", *id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected for schema %d: %w", *id, err)
		}
		if n == 0 {
			return ErrSchemaNotFound
		}
		return nil
	})
}

func (r *SchemaSQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertIntervals(ctx context.Context, tx *sql.Tx, schemaID int64, intervals []models.Interval) error {
	for i, iv := range intervals {
		if _, err := tx.ExecContext(ctx, insertIntervalSQL,
			schemaID, iv.DayOfWeek, iv.StartTimeMinutes, iv.EndTimeMinutes); err != nil {
			return fmt.Errorf("insert interval %d of schema %d: %w", i, schemaID, err)
		}
	}
	return nil
}

func loadSchema(ctx context.Context, q querier, id int64) (*models.SchemaWithIntervals, error) {
	s, err := scanSchema(q.QueryRowContext(ctx, selectSchemaSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSchemaNotFound
		}
		return nil, err
	}

	rows, err := q.QueryContext(ctx, selectIntervalsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select intervals of schema %d: %w", id, err)
	}
	defer rows.Close()

	intervals := make([]models.Interval, 0, 8)
	for rows.Next() {
		var iv models.Interval
		if err := rows.Scan(&iv.ID, &iv.DayOfWeek, &iv.StartTimeMinutes, &iv.EndTimeMinutes); err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &models.SchemaWithIntervals{Schema: s, Intervals: intervals}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchema(row rowScanner) (models.Schema, error) {
	var (
		s      models.Schema
		desc   sql.NullString
		active int64
	)
	if err := row.Scan(&s.ID, &s.Name, &desc, &s.InOfficeTemperature, &s.OutOfOfficeTemperature, &active); err != nil {
		return models.Schema{}, err
	}
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	s.IsActive = active != 0
	return s, nil
}

// nameKey is the uniqueness key of a schema name. SQLite NOCASE folds ASCII
// only, so names are folded with full Unicode case folding before storage.
func nameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// mapConstraintErr turns a UNIQUE violation on schemas.name_key into ErrDuplicateSchemaName.
func mapConstraintErr(err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %v", ErrDuplicateSchemaName, err)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed: schemas.name_key") {
		return fmt.Errorf("%w: %v", ErrDuplicateSchemaName, err)
	}
	return err
}
