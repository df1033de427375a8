package intake

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// fakeRow feeds positional values into Scan the way a pgx row would, so the
// destination order in scanRow can be checked against the column list.
type fakeRow struct {
	vals    []any
	err     error
	scanned int
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	r.scanned = len(dest)
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan called with %d destinations, have %d values", len(dest), len(r.vals))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			v, ok := r.vals[i].(string)
			if !ok {
				return fmt.Errorf("column %d: want string destination, value is %T", i, r.vals[i])
			}
			*p = v
		case *time.Time:
			v, ok := r.vals[i].(time.Time)
			if !ok {
				return fmt.Errorf("column %d: want time destination, value is %T", i, r.vals[i])
			}
			*p = v
		case *bool:
			v, ok := r.vals[i].(bool)
			if !ok {
				return fmt.Errorf("column %d: want bool destination, value is %T", i, r.vals[i])
			}
			*p = v
		default:
			return fmt.Errorf("column %d: unsupported destination %T", i, d)
		}
	}
	return nil
}

type fakeDB struct {
	sql  string
	args []any
	row  *fakeRow
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.sql = sql
	db.args = args
	return db.row
}

func columnList(t *testing.T) []string {
	t.Helper()
	var cols []string
	for _, c := range strings.Split(intakeCols, ",") {
		cols = append(cols, strings.TrimSpace(c))
	}
	return cols
}

var submittedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// valueFor builds a distinct value per column so a swapped pair of
// destinations in scanRow cannot cancel out.
func valueFor(i int, col string) any {
	switch {
	case col == "submitted_at":
		return submittedAt
	case i < 11:
		return "v-" + col
	default:
		return i%2 == 0
	}
}

func TestGetByEventID_ScansColumnsInOrder(t *testing.T) {
	cols := columnList(t)
	vals := make([]any, len(cols))
	for i, col := range cols {
		vals[i] = valueFor(i, col)
	}
	db := &fakeDB{row: &fakeRow{vals: vals}}
	repo := &intakeRepoPG{db: db}

	rec, err := repo.GetByEventID(context.Background(), "v-event_id")
	if err != nil {
		t.Fatalf("GetByEventID: %v", err)
	}

	if !strings.Contains(db.sql, "FROM rumex.bupe_intake WHERE event_id = $1") {
		t.Errorf("query = %q", db.sql)
	}
	if len(db.args) != 1 || db.args[0] != "v-event_id" {
		t.Errorf("args = %v", db.args)
	}
	if db.row.scanned != len(cols) {
		t.Errorf("scanned %d destinations for %d columns", db.row.scanned, len(cols))
	}

	// Each struct field must have received the value planted for its db
	// column, proving the destination order matches the column list.
	rv := reflect.ValueOf(*rec)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("db")
		idx := -1
		for j, col := range cols {
			if col == tag {
				idx = j
				break
			}
		}
		if idx < 0 {
			t.Errorf("field %s: column %q not in query column list", rt.Field(i).Name, tag)
			continue
		}
		want := vals[idx]
		got := rv.Field(i).Interface()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("field %s (column %s) = %v, want %v", rt.Field(i).Name, tag, got, want)
		}
	}
	if len(cols) != rt.NumField() {
		t.Errorf("query selects %d columns, Record has %d fields", len(cols), rt.NumField())
	}
}

func TestGetByEventID_NoRowsMapsToNotFound(t *testing.T) {
	db := &fakeDB{row: &fakeRow{err: pgx.ErrNoRows}}
	repo := &intakeRepoPG{db: db}

	_, err := repo.GetByEventID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetByEventID_QueryErrorWrapped(t *testing.T) {
	db := &fakeDB{row: &fakeRow{err: errors.New("connection reset")}}
	repo := &intakeRepoPG{db: db}

	_, err := repo.GetByEventID(context.Background(), "evt-42")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("generic query error must not map to ErrNotFound")
	}
	if !strings.Contains(err.Error(), "evt-42") || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("err = %v", err)
	}
}
