package infra

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if !IsUniqueViolation(uniqueErr) {
		t.Fatal("23505 not classified as unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("insert user: %w", uniqueErr)) {
		t.Fatal("wrapped 23505 not classified as unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("23503 misclassified as unique violation")
	}
	if IsUniqueViolation(errors.New("connection reset")) {
		t.Fatal("plain error misclassified as unique violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "testimonial_reactions_testimonial_id_fkey"}
	if !IsForeignKeyViolation(fkErr) {
		t.Fatal("23503 not classified as foreign key violation")
	}
	if !IsForeignKeyViolation(fmt.Errorf("insert reaction: %w", fkErr)) {
		t.Fatal("wrapped 23503 not classified as foreign key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("23505 misclassified as foreign key violation")
	}
	if IsForeignKeyViolation(nil) {
		t.Fatal("nil misclassified as foreign key violation")
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows not recognized")
	}
	if !IsNoRows(fmt.Errorf("select testimonial: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped pgx.ErrNoRows not recognized")
	}
	if IsNoRows(errors.New("no rows at all")) {
		t.Fatal("unrelated error recognized as no rows")
	}
}
