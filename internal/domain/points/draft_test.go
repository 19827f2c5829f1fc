package points

import (
	"errors"
	"strings"
	"testing"
)

func mustDraft(t *testing.T, action Action, balance Balance) *Draft {
	t.Helper()
	d, err := NewDraft(action, balance)
	if err != nil {
		t.Fatalf("NewDraft: %v", err)
	}
	return d
}

// TestNewDraft_UnknownAction tests that only EARN/REDEEM are accepted.
func TestNewDraft_UnknownAction(t *testing.T) {
	if _, err := NewDraft("GIFT", Balance{}); err != ErrUnknownAction {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

// TestDraft_RedeemGuard tests that redeem increments are blocked once the
// member's stored balance would be exceeded: with 12 points, two 5-point
// increments succeed (draft = 10) and the third is rejected with the draft
// unchanged.
func TestDraft_RedeemGuard(t *testing.T) {
	d := mustDraft(t, ActionRedeem, Balance{Points10Liter: 12})

	if err := d.Add(Product10Liter); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if err := d.Add(Product10Liter); err != nil {
		t.Fatalf("second increment: %v", err)
	}
	if got := d.Points(Product10Liter); got != 10 {
		t.Fatalf("expected draft=10 after two increments, got %d", got)
	}

	err := d.Add(Product10Liter)
	if err == nil {
		t.Fatal("expected third increment to be rejected")
	}
	var ipe *InsufficientPointsError
	if !errors.As(err, &ipe) {
		t.Fatalf("expected *InsufficientPointsError, got %T", err)
	}
	if ipe.MaxBottles != 2 || ipe.DraftedBottles != 2 || ipe.Balance != 12 {
		t.Errorf("unexpected rejection detail: %+v", ipe)
	}
	if got := d.Points(Product10Liter); got != 10 {
		t.Errorf("draft must be unchanged after rejection, got %d", got)
	}
}

// TestDraft_RedeemGuardPerProduct tests that balances are independent per
// product type.
func TestDraft_RedeemGuardPerProduct(t *testing.T) {
	d := mustDraft(t, ActionRedeem, Balance{Points10Liter: 5, Points15Liter: 0})
	if err := d.Add(Product10Liter); err != nil {
		t.Fatalf("1.0L increment: %v", err)
	}
	if err := d.Add(Product15Liter); err == nil {
		t.Error("expected 1.5L increment to be rejected at zero balance")
	}
}

// TestDraft_EarnUnbounded tests that earn increments ignore the balance:
// 100 consecutive taps yield 100 drafted points.
func TestDraft_EarnUnbounded(t *testing.T) {
	d := mustDraft(t, ActionEarn, Balance{})
	for i := 0; i < 100; i++ {
		if err := d.Add(Product10Liter); err != nil {
			t.Fatalf("increment %d: %v", i+1, err)
		}
	}
	if got := d.Points(Product10Liter); got != 100 {
		t.Errorf("expected 100 drafted points, got %d", got)
	}
	if got := d.Total(); got != 100 {
		t.Errorf("expected total 100, got %d", got)
	}
}

// TestDraft_RemoveDropsEntry tests that decrementing at the unit size removes
// the product-type entry entirely instead of storing zero.
func TestDraft_RemoveDropsEntry(t *testing.T) {
	d := mustDraft(t, ActionRedeem, Balance{Points15Liter: 5})
	if err := d.Add(Product15Liter); err != nil {
		t.Fatalf("increment: %v", err)
	}
	d.Remove(Product15Liter)
	if !d.IsEmpty() {
		t.Errorf("expected empty draft, got entries %+v", d.Entries())
	}
}

// TestDraft_RemoveStepsDown tests a normal decrement above the unit size.
func TestDraft_RemoveStepsDown(t *testing.T) {
	d := mustDraft(t, ActionEarn, Balance{})
	for i := 0; i < 3; i++ {
		if err := d.Add(Product10Liter); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	d.Remove(Product10Liter)
	if got := d.Points(Product10Liter); got != 2 {
		t.Errorf("expected 2 points after decrement, got %d", got)
	}
	// Removing a product with no entry is a no-op.
	d.Remove(Product15Liter)
	if got := d.Total(); got != 2 {
		t.Errorf("expected total unchanged at 2, got %d", got)
	}
}

// TestDraft_Validate tests local submit rejection.
func TestDraft_Validate(t *testing.T) {
	d := mustDraft(t, ActionEarn, Balance{})
	if err := d.Validate(); err != ErrEmptyDraft {
		t.Errorf("expected ErrEmptyDraft, got %v", err)
	}
	if err := d.Add(Product10Liter); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := d.Validate(); err != ErrMissingReceipt {
		t.Errorf("expected ErrMissingReceipt, got %v", err)
	}
	d.Receipt = "  "
	if err := d.Validate(); err != ErrMissingReceipt {
		t.Errorf("expected ErrMissingReceipt for blank receipt, got %v", err)
	}
	d.Receipt = "5-99925"
	if err := d.Validate(); err != nil {
		t.Errorf("expected valid draft, got %v", err)
	}
}

// TestDraft_Description tests the generated receipt description.
func TestDraft_Description(t *testing.T) {
	d := mustDraft(t, ActionRedeem, Balance{Points10Liter: 20, Points15Liter: 10})
	for i := 0; i < 2; i++ {
		if err := d.Add(Product10Liter); err != nil {
			t.Fatalf("1.0L increment: %v", err)
		}
	}
	if err := d.Add(Product15Liter); err != nil {
		t.Fatalf("1.5L increment: %v", err)
	}
	d.Receipt = "15-28182"

	desc := d.Description()
	if desc != "Redeem 1.0 L x 2 bottles (10 pts), Redeem 1.5 L x 1 bottles (5 pts)" {
		t.Errorf("unexpected description: %q", desc)
	}
	if !strings.HasSuffix(d.ReceiptText(), " - 15-28182") {
		t.Errorf("receipt text must end with the receipt number: %q", d.ReceiptText())
	}
}

// TestDraft_EarnDescription tests the earn-side description wording.
func TestDraft_EarnDescription(t *testing.T) {
	d := mustDraft(t, ActionEarn, Balance{})
	for i := 0; i < 3; i++ {
		if err := d.Add(Product15Liter); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if desc := d.Description(); desc != "Earn 1.5 L x 3 bottles" {
		t.Errorf("unexpected description: %q", desc)
	}
}

// TestDraft_UnknownProduct tests the product-type guard.
func TestDraft_UnknownProduct(t *testing.T) {
	d := mustDraft(t, ActionEarn, Balance{})
	if err := d.Add("2_0_LITER"); err != ErrUnknownProduct {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}
}
