package model

import "database/sql"

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx. Model
// functions take it so the upload pipeline can run them inside one transaction
// while handlers use the plain connection.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
