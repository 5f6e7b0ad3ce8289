package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataFor_KnownAndUnknown(t *testing.T) {
	if got := MetadataFor(CodeNotFound).HTTPStatus; got != http.StatusNotFound {
		t.Fatalf("not found status = %d", got)
	}
	if got := MetadataFor(Code("BOGUS")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk on fire")
	err := Wrap(CodeDependency, cause, "writing ledger entry")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should match its cause")
	}
	if As(err).Code() != CodeDependency {
		t.Fatalf("unexpected code %s", As(err).Code())
	}
	if err.Error() != "DEPENDENCY_ERROR: writing ledger entry" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAs_NonTypedError(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors should not convert")
	}
	if As(nil) != nil {
		t.Fatal("nil should not convert")
	}
}

func TestDump_PGError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "revenue_tracking_order_payment_type_key",
		TableName:      "revenue_tracking",
	}
	err := Wrap(CodeConflict, pgErr, "duplicate final entry")

	d := Dump(err)
	if d.PGCode != "23505" {
		t.Fatalf("pg code = %q", d.PGCode)
	}
	if d.PGConstraint != "revenue_tracking_order_payment_type_key" {
		t.Fatalf("pg constraint = %q", d.PGConstraint)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected unwrap chain, got %v", d.Chain)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uniq_order_payment_type"}

	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if !IsUniqueViolation(pgErr, "uniq_order_payment_type") {
		t.Fatal("expected unique violation with matching constraint")
	}
	if IsUniqueViolation(pgErr, "other_constraint") {
		t.Fatal("constraint filter should reject mismatches")
	}
	if IsUniqueViolation(stdErrors.New("nope"), "") {
		t.Fatal("plain errors are not unique violations")
	}
}
