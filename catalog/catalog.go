/*
 * catalog.go, part of gomappings.
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package catalog keeps a record of the MAPPINGS runs in a SQLite database, so
//the models run over time can be listed, compared and reported on.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	mappings "github.com/rmera/gomappings"
	"github.com/rmera/gomappings/run"
)

//Run status
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	model      TEXT NOT NULL,
	id_string  TEXT NOT NULL DEFAULT '',
	params     TEXT NOT NULL,
	input      TEXT NOT NULL DEFAULT '',
	log        TEXT NOT NULL DEFAULT '',
	started    INTEGER NOT NULL,
	elapsed_ns INTEGER NOT NULL,
	exit_code  INTEGER NOT NULL,
	status     TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_model ON runs(model);
CREATE INDEX IF NOT EXISTS runs_started ON runs(started);
`

const columns = `id, model, id_string, params, input, log, started, elapsed_ns, exit_code, status, error`

//Record is one run of one model.
type Record struct {
	ID       string
	Model    string
	IDString string
	Params   mappings.Params
	Input    string
	Log      string
	Started  time.Time
	Elapsed  time.Duration
	ExitCode int
	Status   string
	Error    string
}

//OK returns true if the run succeeded.
func (R *Record) OK() bool {
	return R.Status == StatusOK
}

//Catalog is a run catalog backed by a SQLite database.
type Catalog struct {
	db   *sql.DB
	path string
}

func catalogError(info, caller string, cause error) *mappings.Error {
	return mappings.NewError(mappings.ErrCatalog, "", info, caller).WithCause(cause)
}

//Open opens the catalog in the given file, creating it if needed.
//The special name ":memory:" gives a catalog that lives only in memory.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, catalogError("unable to open database", "Open", err).WithFile(path)
	}
	//SQLite allows one writer at a time, and every connection to :memory: is a different database.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, catalogError("unable to create schema", "Open", err).WithFile(path)
	}
	return &Catalog{db: db, path: path}, nil
}

func (C *Catalog) Close() error {
	return C.db.Close()
}

//Path returns the file of the database.
func (C *Catalog) Path() string {
	return C.path
}

//NewRecord builds the record for a run of M. R can not be nil.
func NewRecord(M *mappings.InputModel, R *run.Result) *Record {
	rec := &Record{
		Model:    M.Name(),
		IDString: R.ID,
		Params:   M.Params(),
		Input:    R.Input,
		Log:      R.Log,
		Started:  R.Started,
		Elapsed:  R.Elapsed,
		ExitCode: R.ExitCode,
		Status:   StatusOK,
	}
	if !R.OK() {
		rec.Status = StatusFailed
		rec.Error = R.Err.Error()
	}
	return rec
}

//Add stores rec with a new ID, which is set in rec and returned.
func (C *Catalog) Add(ctx context.Context, rec *Record) (string, error) {
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return "", catalogError("unable to encode parameters", "Add", err)
	}
	rec.ID = uuid.NewString()
	_, err = C.db.ExecContext(ctx, `INSERT INTO runs (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Model, rec.IDString, string(params), rec.Input, rec.Log,
		rec.Started.UnixNano(), int64(rec.Elapsed), rec.ExitCode, rec.Status, rec.Error)
	if err != nil {
		return "", catalogError("unable to insert run", "Add", err)
	}
	return rec.ID, nil
}

//Record stores the run R of model M. It returns the ID of the new record.
func (C *Catalog) Record(ctx context.Context, M *mappings.InputModel, R *run.Result) (string, error) {
	id, err := C.Add(ctx, NewRecord(M, R))
	return id, mappings.ErrDecorate(err, "Record")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var params string
	var started, elapsed int64
	err := s.Scan(&rec.ID, &rec.Model, &rec.IDString, &params, &rec.Input, &rec.Log, &started, &elapsed, &rec.ExitCode, &rec.Status, &rec.Error)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &rec.Params); err != nil {
		return nil, errors.Wrapf(err, "run %s has invalid parameters", rec.ID)
	}
	rec.Started = time.Unix(0, started)
	rec.Elapsed = time.Duration(elapsed)
	return &rec, nil
}

//Runs returns the runs of the model called model, or of all models if model
//is empty, the most recent first.
func (C *Catalog) Runs(ctx context.Context, model string) ([]*Record, error) {
	q := `SELECT ` + columns + ` FROM runs`
	var args []interface{}
	if model != "" {
		q += ` WHERE model = ?`
		args = append(args, model)
	}
	q += ` ORDER BY started DESC, rowid DESC`
	rows, err := C.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, catalogError("unable to query runs", "Runs", err)
	}
	defer rows.Close()
	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, catalogError("unable to read run", "Runs", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, catalogError("unable to read runs", "Runs", err)
	}
	return recs, nil
}

//Latest returns the most recent run of each model, sorted by model name.
func (C *Catalog) Latest(ctx context.Context) ([]*Record, error) {
	rows, err := C.db.QueryContext(ctx, `SELECT `+columns+` FROM runs r
		WHERE rowid = (SELECT rowid FROM runs WHERE model = r.model ORDER BY started DESC, rowid DESC LIMIT 1)
		ORDER BY model`)
	if err != nil {
		return nil, catalogError("unable to query runs", "Latest", err)
	}
	defer rows.Close()
	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, catalogError("unable to read run", "Latest", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, catalogError("unable to read runs", "Latest", err)
	}
	return recs, nil
}

//Get returns the run with the given ID.
func (C *Catalog) Get(ctx context.Context, id string) (*Record, error) {
	row := C.db.QueryRowContext(ctx, `SELECT `+columns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, catalogError("no run with id "+id, "Get", err)
	}
	if err != nil {
		return nil, catalogError("unable to read run", "Get", err)
	}
	return rec, nil
}

//Delete removes the run with the given ID.
func (C *Catalog) Delete(ctx context.Context, id string) error {
	res, err := C.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return catalogError("unable to delete run", "Delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalogError("no run with id "+id, "Delete", sql.ErrNoRows)
	}
	return nil
}
