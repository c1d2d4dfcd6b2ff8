package log

import (
	"context"
	"testing"
)

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentExpense).
		WithOperation(OpCreate).
		WithExpense("e1", "Lunch", 1234, "Food")

	if fields[FieldComponent] != ComponentExpense {
		t.Errorf("component = %v", fields[FieldComponent])
	}
	if fields[FieldAmountCents] != int64(1234) {
		t.Errorf("amount_cents = %v", fields[FieldAmountCents])
	}

	slice := fields.ToSlice()
	if len(slice) != len(fields)*2 {
		t.Errorf("ToSlice() has %d elements, want %d", len(slice), len(fields)*2)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil || logger.Logger == nil {
		t.Fatal("FromContext without a stored logger must still return a usable logger")
	}

	stored := New(DefaultConfig())
	ctx := context.WithValue(context.Background(), LoggerContextKey, stored)
	if got := FromContext(ctx); got != stored {
		t.Error("FromContext did not return the stored logger")
	}
}
