package projections

import (
	"context"

	"posme/internal/adapters/posapi"
)

// BranchTransactionsAPI defines the backend calls needed by the
// transaction history projection.
type BranchTransactionsAPI interface {
	GetBranchTransactions(ctx context.Context, token string, page, limit int) (posapi.TransactionsPage, error)
}

// BranchTransactionsInput carries the paging parameters.
type BranchTransactionsInput struct {
	Token string
	Page  int
	Limit int
}

// BranchTransactionsDeps holds dependencies for the transaction history projection.
type BranchTransactionsDeps struct {
	API BranchTransactionsAPI
}

// QueryBranchTransactions fetches one page of the signed-in staff user's
// branch transaction history, newest first.
func QueryBranchTransactions(ctx context.Context, input BranchTransactionsInput, deps BranchTransactionsDeps) (posapi.TransactionsPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}

	return deps.API.GetBranchTransactions(ctx, input.Token, page, limit)
}
