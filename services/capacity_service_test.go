package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"pkm-management-api/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type stepKind int

const (
	kindQuery stepKind = iota
	kindExec
)

type queryStep struct {
	kind    stepKind
	pattern *regexp.Regexp
	args    []driver.Value
	columns []string
	rows    [][]driver.Value
	err     error
	result  driver.Result
}

type scriptedDB struct {
	mu    sync.Mutex
	steps []*queryStep
}

func (db *scriptedDB) next(kind stepKind, query string, args []driver.NamedValue) (*queryStep, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	step := db.steps[0]
	if step.kind != kind {
		return nil, fmt.Errorf("unexpected kind for query %s: got %v want %v", query, kind, step.kind)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if len(step.args) != len(args) {
		return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), len(step.args))
	}
	for i := range args {
		if args[i].Value != step.args[i] {
			return nil, fmt.Errorf("unexpected arg %d for %s: got %v want %v", i, query, args[i].Value, step.args[i])
		}
	}
	db.steps = db.steps[1:]
	return step, nil
}

func (db *scriptedDB) verifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("unmet expectations: %d", len(db.steps))
	}
	return nil
}

type scriptedDriver struct {
	db *scriptedDB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{db: d.db}, nil
}

type scriptedConn struct {
	db *scriptedDB
}

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *scriptedConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(kindQuery, query, args)
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	return &scriptedRows{columns: step.columns, rows: step.rows}, nil
}

func (c *scriptedConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.QueryContext(context.Background(), query, named)
}

func (c *scriptedConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(kindExec, query, args)
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	if step.result != nil {
		return step.result, nil
	}
	return scriptedResult{}, nil
}

func (c *scriptedConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return c.ExecContext(context.Background(), query, named)
}

type scriptedResult struct {
	lastInsertID int64
	rowsAffected int64
}

func (r scriptedResult) LastInsertId() (int64, error) { return r.lastInsertID, nil }

func (r scriptedResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type scriptedRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *scriptedRows) Columns() []string { return r.columns }

func (r *scriptedRows) Close() error { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

func newScriptedGormDB(t *testing.T, steps []*queryStep) (*gorm.DB, *scriptedDB, func()) {
	t.Helper()
	state := &scriptedDB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(driverName, &scriptedDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, state, cleanup
}

var (
	incrementPattern   = regexp.MustCompile(`UPDATE advisor_profiles SET used = used \+ 1`)
	decrementPattern   = regexp.MustCompile(`UPDATE advisor_profiles SET used = used - 1`)
	updateQuotaPattern = regexp.MustCompile(`UPDATE advisor_profiles SET quota = \?`)
	profilePattern     = regexp.MustCompile(`SELECT .* FROM .advisor_profiles. WHERE advisor_id = \?`)
)

var profileColumns = []string{"advisor_id", "user_id", "quota", "used"}

func TestIncrementConsumesSlot(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: incrementPattern,
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	if err := NewCapacityService(gormDB).Increment(7); err != nil {
		t.Fatalf("expected slot to be consumed, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestIncrementRejectsAdvisorAtQuota(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: incrementPattern,
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			kind:    kindQuery,
			pattern: profilePattern,
			// trailing arg is the bound LIMIT of First()
			args:    []driver.Value{int64(7), int64(1)},
			columns: profileColumns,
			rows:    [][]driver.Value{{int64(7), int64(20), int64(3), int64(3)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewCapacityService(gormDB).Increment(7)
	var capErr *utils.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Limit != 3 || capErr.Requested != 4 {
		t.Errorf("CapacityError{Limit: %d, Requested: %d}, want {3, 4}", capErr.Limit, capErr.Requested)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestIncrementUnknownAdvisor(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: incrementPattern,
			args:    []driver.Value{int64(99)},
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			kind:    kindQuery,
			pattern: profilePattern,
			args:    []driver.Value{int64(99), int64(1)},
			columns: profileColumns,
			rows:    [][]driver.Value{},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewCapacityService(gormDB).Increment(99)
	var notFound *utils.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestDecrementStopsAtZero(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: decrementPattern,
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			kind:    kindQuery,
			pattern: profilePattern,
			args:    []driver.Value{int64(7), int64(1)},
			columns: profileColumns,
			rows:    [][]driver.Value{{int64(7), int64(20), int64(3), int64(0)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewCapacityService(gormDB).Decrement(7)
	var conflict *utils.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateQuotaRejectsValueBelowUsed(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: updateQuotaPattern,
			args:    []driver.Value{int64(3), int64(7), int64(3)},
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			kind:    kindQuery,
			pattern: profilePattern,
			args:    []driver.Value{int64(7), int64(1)},
			columns: profileColumns,
			rows:    [][]driver.Value{{int64(7), int64(20), int64(5), int64(4)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewCapacityService(gormDB).UpdateQuota(7, 3)
	var valErr *utils.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Rule != "below_used" {
		t.Errorf("expected rule below_used, got %s", valErr.Rule)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateQuotaRejectsNegativeValue(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	err := NewCapacityService(gormDB).UpdateQuota(7, -1)
	var valErr *utils.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}
