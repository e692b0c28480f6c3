package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
)

// A minimal driver whose transactions always fail to commit, standing in for
// a connection lost between the last statement and the COMMIT.  Statements
// succeed and report one affected row, so only the commit path can fail.
type commitFailDriver struct{}

func (commitFailDriver) Open(string) (driver.Conn, error) { return &commitFailConn{}, nil }

type commitFailConn struct{}

func (*commitFailConn) Prepare(string) (driver.Stmt, error) { return execOnlyStmt{}, nil }
func (*commitFailConn) Close() error                        { return nil }
func (*commitFailConn) Begin() (driver.Tx, error)           { return commitFailTx{}, nil }

type commitFailTx struct{}

func (commitFailTx) Commit() error   { return errors.New("commit: connection lost") }
func (commitFailTx) Rollback() error { return nil }

type execOnlyStmt struct{}

func (execOnlyStmt) Close() error  { return nil }
func (execOnlyStmt) NumInput() int { return -1 }
func (execOnlyStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}
func (execOnlyStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("query not supported")
}

func init() { sql.Register("commitfail", commitFailDriver{}) }

func openCommitFailDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("commitfail", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDishDeleteReportsCommitFailure(t *testing.T) {
	repo := NewDishRepo(openCommitFailDB(t))
	err := repo.Delete(context.Background(), 1)
	if err == nil {
		t.Fatal("a failed COMMIT must surface as an error: nothing was deleted")
	}
	if errors.Is(err, ErrDishNotFound) {
		t.Fatalf("commit failure must not masquerade as not-found: %v", err)
	}
}

func TestCountryReorderReportsCommitFailure(t *testing.T) {
	repo := NewCountryRepo(openCommitFailDB(t))
	if err := repo.Reorder(context.Background(), []uint64{3, 1, 2}); err == nil {
		t.Fatal("a failed COMMIT must surface as an error: no position was rewritten")
	}
}
