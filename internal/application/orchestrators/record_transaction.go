package orchestrators

import (
	"context"
	"log/slog"

	"posme/internal/adapters/posapi"
	"posme/internal/domain/points"
)

// TransactionAPI defines the backend calls needed by RecordTransaction.
type TransactionAPI interface {
	CreateTransaction(ctx context.Context, token string, req posapi.TransactionRequest) (posapi.TransactionResult, error)
}

// RecordTransactionInput carries input for the record-transaction orchestrator.
// Bottles maps product type to the number of bottles tapped in for it.
type RecordTransactionInput struct {
	Token    string
	MemberID string
	Action   points.Action
	Balance  points.Balance
	Receipt  string
	Bottles  map[points.ProductType]int
}

// RecordTransactionDeps holds dependencies for RecordTransaction.
type RecordTransactionDeps struct {
	API TransactionAPI
}

// ExecuteRecordTransaction rebuilds the points draft bottle by bottle, so the
// redeem balance guard applies to every increment, then submits all entries
// as a single backend transaction.
// PRE: Action is EARN or REDEEM, receipt number present, at least one bottle
// POST: All drafted entries recorded atomically, or nothing recorded
// INVARIANT: A redeem draft never exceeds the member's balance per product
func ExecuteRecordTransaction(ctx context.Context, input RecordTransactionInput, deps RecordTransactionDeps) (posapi.TransactionResult, error) {
	draft, err := points.NewDraft(input.Action, input.Balance)
	if err != nil {
		return posapi.TransactionResult{}, err
	}
	draft.Receipt = input.Receipt

	for _, p := range []points.ProductType{points.Product10Liter, points.Product15Liter} {
		for i := 0; i < input.Bottles[p]; i++ {
			if err := draft.Add(p); err != nil {
				return posapi.TransactionResult{}, err
			}
		}
	}

	if err := draft.Validate(); err != nil {
		return posapi.TransactionResult{}, err
	}

	result, err := deps.API.CreateTransaction(ctx, input.Token, posapi.TransactionRequest{
		MemberID:    input.MemberID,
		Action:      draft.Action,
		Products:    draft.Entries(),
		ReceiptText: draft.ReceiptText(),
	})
	if err != nil {
		return posapi.TransactionResult{}, err
	}

	slog.Info("points_event", "event", "transaction_recorded",
		"member_id", input.MemberID,
		"action", draft.Action,
		"total_points", draft.Total(),
	)

	return result, nil
}
