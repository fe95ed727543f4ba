package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	pg := errors.New(`ERROR: duplicate key value violates unique constraint "orders_payment_intent_id_key" (SQLSTATE 23505)`)
	if !IsUniqueViolation(pg, "") {
		t.Fatal("postgres duplicate key should match")
	}
	if !IsUniqueViolation(pg, "orders_payment_intent_id_key") {
		t.Fatal("named constraint should match")
	}
	if IsUniqueViolation(pg, "other_constraint") {
		t.Fatal("different constraint name should not match")
	}

	lite := errors.New("UNIQUE constraint failed: orders.payment_intent_id")
	if !IsUniqueViolation(lite, "") {
		t.Fatal("sqlite unique violation should match")
	}

	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
}

func TestIsMissingColumn(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New(`ERROR: column "promo_code" does not exist (SQLSTATE 42703)`), true},
		{errors.New("no such column: promo_code"), true},
		{errors.New(`relation "orders" does not exist`), false},
		{errors.New("connection refused"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsMissingColumn(tc.err); got != tc.want {
			t.Fatalf("IsMissingColumn(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
