package posapi

import (
	"posme/internal/domain/member"
	"posme/internal/domain/points"
	"posme/internal/domain/staff"
)

// LoginResponse is the payload returned by POST auth/login.
type LoginResponse struct {
	Token     string     `json:"token"`
	StaffUser staff.User `json:"staff_user"`
}

// MembersPage is one page of the member listing.
type MembersPage struct {
	Members []member.Member `json:"members"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// TransactionRequest is the payload for POST transactions: all drafted
// entries submitted in a single call.
type TransactionRequest struct {
	MemberID    string         `json:"member_id"`
	Action      points.Action  `json:"action"`
	Products    []points.Entry `json:"products"`
	ReceiptText string         `json:"receipt_text"`
}

// Transaction is one ledger entry as returned by the backend.
type Transaction struct {
	ID          string             `json:"id"`
	MemberID    string             `json:"member_id"`
	StaffUserID string             `json:"staff_user_id"`
	Action      points.Action      `json:"action"`
	ProductType points.ProductType `json:"product_type"`
	Points      int                `json:"points"`
	ReceiptText string             `json:"receipt_text"`
	CreatedAt   string             `json:"created_at"`
}

// TransactionResult is the response to a transaction create.
type TransactionResult struct {
	Transactions []Transaction `json:"transactions"`
	TotalPoints  int           `json:"total_points"`
	Message      string        `json:"message"`
}

// TransactionsPage is one page of the branch transaction history.
type TransactionsPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
}
