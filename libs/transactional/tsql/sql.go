// Package tsql wraps database/sql so that code can run unchanged against
// either a plain connection or an open transaction.
package tsql

import (
	"database/sql"
	"errors"
)

// DB defines the sql.DB methods that are on both the DB and TX structs
type DB interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
	Begin() (Tx, error)
}

// Tx defines the transaction interface
type Tx interface {
	DB
	Rollback() error
	Commit() error
}

// AsDB wraps a sql.DB struct to conform to the tsql interfaces
func AsDB(s *sql.DB) DB {
	return &db{s}
}

type db struct {
	*sql.DB
}

func (db *db) Begin() (Tx, error) {
	t, err := db.DB.Begin()
	if err != nil {
		return nil, err
	}
	return &tx{t}, nil
}

type tx struct {
	*sql.Tx
}

func (tx *tx) Begin() (Tx, error) {
	return nil, errors.New("tsql: cannot call Begin() on an existing transaction")
}

// AsSafeTx converts a Tx into a transaction that noops on nested
// Begin/Rollback/Commit so that code written against DB can run inside an
// outer transaction it doesn't own.
func AsSafeTx(t Tx) Tx {
	return &safeTx{t}
}

type safeTx struct {
	Tx
}

func (tx *safeTx) Begin() (Tx, error) {
	return tx, nil
}

func (tx *safeTx) Rollback() error {
	return nil
}

func (tx *safeTx) Commit() error {
	return nil
}
