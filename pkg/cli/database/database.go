/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package database provides the local persistent store of accounts and notes
package database

import (
	"database/sql"
	"strings"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is an error for a row that does not exist
	ErrNotFound = errors.New("not found")
	// ErrCantStartTransaction is an error for starting a transaction on a transaction
	ErrCantStartTransaction = errors.New("can't start transaction")
)

// dsnOptions are the connection options appended to every data source name
const dsnOptions = "_foreign_keys=1&_busy_timeout=5000"

// SQLCommon is the minimal interface shared by a connection and a transaction
type SQLCommon interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type sqlDB interface {
	Begin() (*sql.Tx, error)
	Close() error
}

type sqlTx interface {
	Commit() error
	Rollback() error
}

// DB wraps either a database connection or a transaction
type DB struct {
	Conn     SQLCommon
	Filepath string
}

func withOptions(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + dsnOptions
	}

	return dbPath + "?" + dsnOptions
}

// Open opens a connection to the SQLite database at the given path.
// The path may be a plain file path or a "file:" URI.
func Open(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", withOptions(dbPath))
	if err != nil {
		return nil, errors.Wrapf(err, "opening db connection to %s", dbPath)
	}

	// A single connection serializes the writers and keeps a shared in-memory
	// database alive for as long as the handle is open.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "connecting to %s", dbPath)
	}

	return &DB{Conn: conn, Filepath: dbPath}, nil
}

// Begin begins a transaction
func (d *DB) Begin() (*DB, error) {
	if db, ok := d.Conn.(sqlDB); ok && db != nil {
		tx, err := db.Begin()
		if err != nil {
			return nil, errors.Wrap(err, "beginning a transaction")
		}

		return &DB{Conn: tx, Filepath: d.Filepath}, nil
	}

	return nil, ErrCantStartTransaction
}

// Commit commits a transaction
func (d *DB) Commit() error {
	if db, ok := d.Conn.(sqlTx); ok && db != nil {
		if err := db.Commit(); err != nil {
			return err
		}
	} else {
		return errors.New("invalid transaction")
	}

	return nil
}

// Rollback rolls back a transaction
func (d *DB) Rollback() error {
	if db, ok := d.Conn.(sqlTx); ok && db != nil {
		if err := db.Rollback(); err != nil {
			return err
		}
	} else {
		return errors.New("invalid transaction")
	}

	return nil
}

// Exec executes a sql statement
func (d *DB) Exec(query string, values ...interface{}) (sql.Result, error) {
	return d.Conn.Exec(query, values...)
}

// Prepare prepares a sql statement
func (d *DB) Prepare(query string) (*sql.Stmt, error) {
	return d.Conn.Prepare(query)
}

// Query queries rows
func (d *DB) Query(query string, values ...interface{}) (*sql.Rows, error) {
	return d.Conn.Query(query, values...)
}

// QueryRow queries a row
func (d *DB) QueryRow(query string, values ...interface{}) *sql.Row {
	return d.Conn.QueryRow(query, values...)
}

// Close closes a db connection
func (d *DB) Close() error {
	if db, ok := d.Conn.(sqlDB); ok {
		return db.Close()
	}

	return errors.New("can't close db")
}

// inTx runs fn inside a transaction. It commits when fn returns nil and rolls
// back otherwise.
func (d *DB) inTx(fn func(tx *DB) error) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing the transaction")
	}

	return nil
}
