package db

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	d, err := Open(DriverSQLite, "file:dbopen?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	for _, table := range []string{"profiles", "orders"} {
		var name string
		if err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
	v, err := Version(d, DriverSQLite)
	if err != nil || v < 2 {
		t.Fatalf("version = %d err=%v", v, err)
	}
}

func TestRollbackLast_StepsBack(t *testing.T) {
	d, err := Open(DriverSQLite, "file:dbrollback?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := RollbackLast(d, DriverSQLite); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='uq_profiles_phone'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("unique phone index should be gone after first rollback")
	}

	if err := RollbackLast(d, DriverSQLite); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='orders'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("orders table should be gone after rollback")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestStatementBuilder_Placeholders(t *testing.T) {
	q, _, err := StatementBuilder(DriverPostgres).Select("id").From("orders").Where(sq.Eq{"id": "a"}).ToSql()
	if err != nil || q != "SELECT id FROM orders WHERE id = $1" {
		t.Fatalf("postgres sql = %q err=%v", q, err)
	}
	q, _, err = StatementBuilder(DriverSQLite).Select("id").From("orders").Where(sq.Eq{"id": "a"}).ToSql()
	if err != nil || q != "SELECT id FROM orders WHERE id = ?" {
		t.Fatalf("sqlite sql = %q err=%v", q, err)
	}
}
