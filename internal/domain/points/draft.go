package points

import (
	"errors"
	"fmt"
	"strings"
)

// Action is the direction of a loyalty-points transaction.
type Action string

// Transaction directions.
const (
	ActionEarn   Action = "EARN"
	ActionRedeem Action = "REDEEM"
)

// ProductType is one of the two bottle-size categories, each with an
// independent point balance.
type ProductType string

// Product types.
const (
	Product10Liter ProductType = "1_0_LITER"
	Product15Liter ProductType = "1_5_LITER"
)

// Conversion rules: one tap adds one bottle. Earning credits one point per
// bottle; redeeming debits five points per bottle.
const (
	EarnPointsPerBottle   = 1
	RedeemPointsPerBottle = 5
)

// Domain errors
var (
	ErrEmptyDraft     = errors.New("select at least one product to continue")
	ErrMissingReceipt = errors.New("receipt number is required")
	ErrUnknownProduct = errors.New("unknown product type")
	ErrUnknownAction  = errors.New("action must be EARN or REDEEM")
)

// InsufficientPointsError is returned when a redeem increment would exceed the
// member's stored balance for a product type. It carries enough context to
// render the remaining-bottle message the dialog shows.
type InsufficientPointsError struct {
	Product        ProductType
	Balance        int // member's stored points for this product type
	Drafted        int // points already drafted for this product type
	MaxBottles     int // bottles redeemable from the stored balance
	DraftedBottles int // bottles already drafted
}

// Error renders the user-facing rejection message.
func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("not enough %s points: member has %d (max %d bottles, %d already selected)",
		productLabel(e.Product), e.Balance, e.MaxBottles, e.DraftedBottles)
}

// Balance is the snapshot of a member's per-product point balances taken when
// the dialog opens. The backend remains the authority; the snapshot only
// stops the UI from drafting an impossible redemption.
type Balance struct {
	Points10Liter int
	Points15Liter int
}

// For returns the stored points for a product type.
func (b Balance) For(p ProductType) int {
	if p == Product15Liter {
		return b.Points15Liter
	}
	return b.Points10Liter
}

// Entry is one pending point adjustment for a product type.
type Entry struct {
	Product ProductType `json:"product_type"`
	Points  int         `json:"points"`
}

// Draft accumulates pending point adjustments for one open dialog instance.
// At most one entry per product type. Created empty when the dialog opens,
// discarded on close or successful submit.
type Draft struct {
	Action  Action
	Balance Balance
	Receipt string

	entries []Entry
}

// NewDraft creates an empty draft for the given action and member snapshot.
// PRE: action is ActionEarn or ActionRedeem
// POST: Returns an empty draft
func NewDraft(action Action, balance Balance) (*Draft, error) {
	if action != ActionEarn && action != ActionRedeem {
		return nil, ErrUnknownAction
	}
	return &Draft{Action: action, Balance: balance}, nil
}

// Unit returns the points one tap adds or removes under the draft's action.
func (d *Draft) Unit() int {
	if d.Action == ActionRedeem {
		return RedeemPointsPerBottle
	}
	return EarnPointsPerBottle
}

// Points returns the drafted points for a product type (0 if no entry).
func (d *Draft) Points(p ProductType) int {
	for _, e := range d.entries {
		if e.Product == p {
			return e.Points
		}
	}
	return 0
}

// Bottles returns the drafted bottle count for a product type.
func (d *Draft) Bottles(p ProductType) int {
	return d.Points(p) / d.Unit()
}

// Total returns the sum of drafted points across product types.
func (d *Draft) Total() int {
	sum := 0
	for _, e := range d.entries {
		sum += e.Points
	}
	return sum
}

// Entries returns a copy of the pending entries in insertion order.
func (d *Draft) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// IsEmpty returns true when no points have been drafted.
func (d *Draft) IsEmpty() bool {
	return len(d.entries) == 0
}

// Add applies one tap: one bottle's worth of points for the product type.
// For REDEEM the increment is rejected before any state change when it would
// exceed the member's stored balance for that product type. EARN increments
// are unbounded.
// PRE: p is a known product type
// POST: On success the entry for p grows by Unit(); on rejection the draft is
// unchanged and an *InsufficientPointsError is returned
func (d *Draft) Add(p ProductType) error {
	if p != Product10Liter && p != Product15Liter {
		return ErrUnknownProduct
	}

	if d.Action == ActionRedeem {
		balance := d.Balance.For(p)
		drafted := d.Points(p)
		if drafted+RedeemPointsPerBottle > balance {
			return &InsufficientPointsError{
				Product:        p,
				Balance:        balance,
				Drafted:        drafted,
				MaxBottles:     balance / RedeemPointsPerBottle,
				DraftedBottles: drafted / RedeemPointsPerBottle,
			}
		}
	}

	for i := range d.entries {
		if d.entries[i].Product == p {
			d.entries[i].Points += d.Unit()
			return nil
		}
	}
	d.entries = append(d.entries, Entry{Product: p, Points: d.Unit()})
	return nil
}

// Remove takes one bottle's worth of points off a product type. If the result
// would be zero or less the entry is removed entirely rather than stored as
// zero.
// PRE: p is a known product type
// POST: Entry for p shrinks by Unit() or is removed
func (d *Draft) Remove(p ProductType) {
	for i := range d.entries {
		if d.entries[i].Product != p {
			continue
		}
		if d.entries[i].Points > d.Unit() {
			d.entries[i].Points -= d.Unit()
			return
		}
		d.entries = append(d.entries[:i], d.entries[i+1:]...)
		return
	}
}

// Validate checks that the draft can be submitted.
// PRE: Draft may be empty
// POST: Returns ErrEmptyDraft or ErrMissingReceipt when not submittable
func (d *Draft) Validate() error {
	if d.IsEmpty() {
		return ErrEmptyDraft
	}
	if strings.TrimSpace(d.Receipt) == "" {
		return ErrMissingReceipt
	}
	return nil
}

// Description generates the human-readable per-product summary that is stored
// with the transaction.
func (d *Draft) Description() string {
	var parts []string
	for _, p := range []ProductType{Product10Liter, Product15Liter} {
		pts := d.Points(p)
		if pts == 0 {
			continue
		}
		if d.Action == ActionEarn {
			parts = append(parts, fmt.Sprintf("Earn %s x %d bottles", productLabel(p), pts))
		} else {
			parts = append(parts, fmt.Sprintf("Redeem %s x %d bottles (%d pts)",
				productLabel(p), pts/RedeemPointsPerBottle, pts))
		}
	}
	return strings.Join(parts, ", ")
}

// ReceiptText returns the description plus the receipt number, the exact form
// submitted to the backend.
// PRE: Validate has passed
func (d *Draft) ReceiptText() string {
	return d.Description() + " - " + strings.TrimSpace(d.Receipt)
}

func productLabel(p ProductType) string {
	if p == Product15Liter {
		return "1.5 L"
	}
	return "1.0 L"
}
