package postgres

import (
	"database/sql"
	"testing"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation box_scores does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("ignores nil", func(t *testing.T) {
		if isPoolerStatementError(nil) {
			t.Fatalf("expected false for nil error")
		}
	})
}

func TestNullableConversions(t *testing.T) {
	seven := 7
	if got := nullableInt(&seven); !got.Valid || got.Int64 != 7 {
		t.Fatalf("unexpected NullInt64 for 7: %+v", got)
	}
	if got := nullableInt(nil); got.Valid {
		t.Fatalf("expected invalid NullInt64 for nil")
	}
	if got := nullStringToPtr(sql.NullString{}); got != nil {
		t.Fatalf("expected nil for NULL string, got %q", *got)
	}
	slug := "jane-doe"
	if got := nullStringToPtr(nullableString(&slug)); got == nil || *got != slug {
		t.Fatalf("round trip string: %v", got)
	}
}

func TestChunks(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := chunks(items, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != 5 {
		t.Fatalf("unexpected chunks: %v", got)
	}
	if len(chunks([]int{}, 2)) != 0 {
		t.Fatalf("expected no chunks for empty input")
	}
}

func TestLastByKey(t *testing.T) {
	type row struct{ id, v string }
	got := lastByKey([]row{{"a", "1"}, {"b", "1"}, {"a", "2"}}, func(r row) string { return r.id })
	if len(got) != 2 || got[0].v != "2" || got[1].id != "b" {
		t.Fatalf("unexpected dedupe: %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
