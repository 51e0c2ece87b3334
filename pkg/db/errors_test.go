package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	err := errors.New(`duplicate key value violates unique constraint "idx_users_email"`)

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic duplicate key to match")
	}
	if !IsUniqueViolation(err, "idx_users_email") {
		t.Fatal("expected named constraint to match")
	}
	if IsUniqueViolation(err, "idx_vehicles_registration_number") {
		t.Fatal("expected other constraint not to match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pgx restrict", &pgconn.PgError{Code: "23503"}, true},
		{"pq restrict", &pq.Error{Code: "23503"}, true},
		{"wrapped pgx", fmt.Errorf("delete vehicle: %w", &pgconn.PgError{Code: "23503"}), true},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, false},
		{"postgres message", errors.New(`update or delete on table "vehicles" violates foreign key constraint "bookings_vehicle_id_fkey" on table "bookings"`), true},
		{"sqlite message", errors.New("FOREIGN KEY constraint failed"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		if got := IsForeignKeyViolation(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
