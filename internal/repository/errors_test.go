package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("unique something"), false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"fk violation", &pgconn.PgError{Code: "23503"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	if !isForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected 23503 to be a foreign key violation")
	}
	if isForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected 23505 not to be a foreign key violation")
	}
}

func TestViolatedConstraint(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	if got := violatedConstraint(err); got != "users_email_key" {
		t.Errorf("violatedConstraint() = %q, want users_email_key", got)
	}
	if got := violatedConstraint(errors.New("boom")); got != "" {
		t.Errorf("violatedConstraint() = %q, want empty", got)
	}
}
