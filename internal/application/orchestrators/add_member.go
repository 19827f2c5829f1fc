package orchestrators

import (
	"context"
	"log/slog"

	"posme/internal/domain/member"
)

// MemberAPI defines the backend calls needed by AddMember.
type MemberAPI interface {
	CreateMember(ctx context.Context, token string, in member.NewMemberInput) (member.Member, error)
}

// AddMemberInput carries input for the add-member orchestrator.
type AddMemberInput struct {
	Token                     string
	Name                      string
	Last4                     string
	Branch                    string
	RegistrationReceiptNumber string
}

// AddMemberDeps holds dependencies for AddMember.
type AddMemberDeps struct {
	API MemberAPI
}

// ExecuteAddMember validates and registers a new loyalty member.
// PRE: Last4 is exactly four digits, name and receipt number present
// POST: Member exists in the backend with a registration receipt on file
func ExecuteAddMember(ctx context.Context, input AddMemberInput, deps AddMemberDeps) (member.Member, error) {
	in := member.NewMemberInput{
		Name:                      input.Name,
		Last4:                     input.Last4,
		Branch:                    input.Branch,
		RegistrationReceiptNumber: input.RegistrationReceiptNumber,
	}
	if err := in.Validate(); err != nil {
		return member.Member{}, err
	}

	m, err := deps.API.CreateMember(ctx, input.Token, in)
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_added", "member_id", m.ID, "branch", m.Branch)

	return m, nil
}
