package member

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("member name cannot be empty")
	ErrNameTooLong  = errors.New("member name cannot exceed 100 characters")
	ErrInvalidLast4 = errors.New("last4 must be exactly 4 digits")
	ErrEmptyBranch  = errors.New("branch cannot be empty")
	ErrEmptyReceipt = errors.New("registration receipt number cannot be empty")
)

// Member is the loyalty-member record owned and computed by the external POS
// backend. The client only displays it and requests mutations against it.
type Member struct {
	ID                        string `json:"id"`
	Name                      string `json:"name"`
	Last4                     string `json:"last4"`
	TotalPoints               int    `json:"total_points"`
	MilestoneScore            int    `json:"milestone_score"`
	Points10Liter             int    `json:"points_1_0_liter"`
	Points15Liter             int    `json:"points_1_5_liter"`
	Branch                    string `json:"branch"`
	Status                    string `json:"status"`
	MembershipNumber          string `json:"membership_number,omitempty"`
	RegistrationReceiptNumber string `json:"registration_receipt_number"`
	WelcomeBonusClaimed       bool   `json:"welcome_bonus_claimed"`
	RegisteredByStaff         string `json:"registered_by_staff"`
	CreatedAt                 string `json:"created_at"`
	UpdatedAt                 string `json:"updated_at"`
}

// NewMemberInput carries the fields a staff user supplies when registering a
// member; everything else is computed by the backend.
type NewMemberInput struct {
	Name                      string `json:"name"`
	Last4                     string `json:"last4"`
	Branch                    string `json:"branch"`
	RegistrationReceiptNumber string `json:"registration_receipt_number"`
}

// ValidateLast4 checks that last4 is exactly four ASCII digits.
// PRE: last4 may be empty
// POST: Returns ErrInvalidLast4 if not exactly four digits
func ValidateLast4(last4 string) error {
	if len(last4) != 4 {
		return ErrInvalidLast4
	}
	for _, c := range last4 {
		if c < '0' || c > '9' {
			return ErrInvalidLast4
		}
	}
	return nil
}

// Validate checks if the registration input has valid data.
// PRE: input fields may be empty
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name non-empty and within limit, Last4 exactly four digits,
// Branch and receipt number non-empty
func (in *NewMemberInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if len(in.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if err := ValidateLast4(in.Last4); err != nil {
		return err
	}
	if strings.TrimSpace(in.Branch) == "" {
		return ErrEmptyBranch
	}
	if strings.TrimSpace(in.RegistrationReceiptNumber) == "" {
		return ErrEmptyReceipt
	}
	return nil
}

// IsActive returns true if the member is currently active.
// INVARIANT: Status field is not mutated
func (m Member) IsActive() bool {
	return m.Status == StatusActive
}

// MaskedPhone returns the display form of the member's phone suffix.
func (m Member) MaskedPhone() string {
	return "****" + m.Last4
}
