package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) a SQLite database and returns a store backed
// by it. Each entity type gets its own table holding a JSON document per row.
func OpenSQLite(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// The pipeline is single-threaded; one connection also keeps ":memory:"
	// databases from being split across connections.
	db.SetMaxOpenConns(1)

	s := &Store{
		Contexts:          newSQLiteRepository[model.Context](db, "contexts"),
		Users:             newSQLiteRepository[model.User](db, "users"),
		Submissions:       newSQLiteRepository[model.Submission](db, "submissions"),
		Publications:      newSQLiteRepository[model.Publication](db, "publications"),
		Authors:           newSQLiteRepository[model.Author](db, "authors"),
		Galleys:           newSQLiteRepository[model.Galley](db, "galleys"),
		SubmissionFiles:   newSQLiteRepository[model.SubmissionFile](db, "submission_files"),
		Files:             newSQLiteRepository[model.File](db, "files"),
		ReviewRounds:      newSQLiteRepository[model.ReviewRound](db, "review_rounds"),
		ReviewAssignments: newSQLiteRepository[model.ReviewAssignment](db, "review_assignments"),
		ReviewForms:       newSQLiteRepository[model.ReviewForm](db, "review_forms"),
		Queries:           newSQLiteRepository[model.Query](db, "queries"),
		Notes:             newSQLiteRepository[model.Note](db, "notes"),
		DOIs:              newSQLiteRepository[model.DOI](db, "dois"),
		closer:            db,
	}

	for _, table := range sqliteTables {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			data TEXT NOT NULL
		)`, table)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "create table %s", table)
		}
	}

	return s, nil
}

var sqliteTables = []string{
	"contexts", "users", "submissions", "publications", "authors", "galleys",
	"submission_files", "files", "review_rounds", "review_assignments",
	"review_forms", "queries", "notes", "dois",
}

type sqliteRepository[PT Entity] struct {
	db    *sql.DB
	table string
	newT  func() PT
}

var _ Repository[*model.Author] = (*sqliteRepository[*model.Author])(nil)

func newSQLiteRepository[T any, PT entityPointer[T]](db *sql.DB, table string) *sqliteRepository[PT] {
	return &sqliteRepository[PT]{
		db:    db,
		table: table,
		newT:  func() PT { return PT(new(T)) },
	}
}

func (r *sqliteRepository[PT]) Add(ctx context.Context, v PT) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (data) VALUES ('{}')", r.table))
	if err != nil {
		return 0, errors.Wrapf(err, "insert into %s", r.table)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "last insert id")
	}

	v.SetID(id)
	blob, err := json.Marshal(v)
	if err != nil {
		v.SetID(0)
		return 0, errors.Wrap(err, "encoding entity")
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET data = ? WHERE id = ?", r.table), string(blob), id); err != nil {
		v.SetID(0)
		return 0, errors.Wrapf(err, "update %s", r.table)
	}
	if err := tx.Commit(); err != nil {
		v.SetID(0)
		return 0, errors.Wrap(err, "commit")
	}
	return id, nil
}

func (r *sqliteRepository[PT]) Get(ctx context.Context, id int64) (PT, error) {
	var (
		zero PT
		data string
	)
	row := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT data FROM %s WHERE id = ?", r.table), id)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return zero, ErrNotFound
		}
		return zero, errors.Wrapf(err, "select from %s", r.table)
	}
	return r.decode(data)
}

func (r *sqliteRepository[PT]) Edit(ctx context.Context, v PT) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding entity")
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET data = ? WHERE id = ?", r.table), string(blob), v.GetID())
	if err != nil {
		return errors.Wrapf(err, "update %s", r.table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository[PT]) Find(ctx context.Context, match func(PT) bool) ([]PT, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT data FROM %s ORDER BY id", r.table))
	if err != nil {
		return nil, errors.Wrapf(err, "select from %s", r.table)
	}
	defer rows.Close()

	var items []PT
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		v, err := r.decode(data)
		if err != nil {
			return nil, err
		}
		if match == nil || match(v) {
			items = append(items, v)
		}
	}
	return items, rows.Err()
}

func (r *sqliteRepository[PT]) decode(data string) (PT, error) {
	v := r.newT()
	if err := json.Unmarshal([]byte(data), v); err != nil {
		var zero PT
		return zero, errors.Wrapf(err, "decoding %s row", r.table)
	}
	return v, nil
}
