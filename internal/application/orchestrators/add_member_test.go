package orchestrators

import (
	"context"
	"errors"
	"testing"

	"posme/internal/domain/member"
)

type mockMemberAPI struct {
	created member.Member
	err     error
	calls   int
	last    member.NewMemberInput
}

func (m *mockMemberAPI) CreateMember(ctx context.Context, token string, in member.NewMemberInput) (member.Member, error) {
	m.calls++
	m.last = in
	return m.created, m.err
}

func TestExecuteAddMember_InvalidLast4(t *testing.T) {
	api := &mockMemberAPI{}

	input := AddMemberInput{Name: "Ann", Last4: "12a4", Branch: "central", RegistrationReceiptNumber: "R-1"}
	_, err := ExecuteAddMember(context.Background(), input, AddMemberDeps{API: api})
	if !errors.Is(err, member.ErrInvalidLast4) {
		t.Errorf("expected ErrInvalidLast4, got %v", err)
	}
	if api.calls != 0 {
		t.Errorf("expected no backend call, got %d", api.calls)
	}
}

func TestExecuteAddMember_Success(t *testing.T) {
	api := &mockMemberAPI{created: member.Member{ID: "m1", Name: "Ann", Last4: "1234", Branch: "central"}}

	input := AddMemberInput{Name: "Ann", Last4: "1234", Branch: "central", RegistrationReceiptNumber: "R-1"}
	m, err := ExecuteAddMember(context.Background(), input, AddMemberDeps{API: api})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "m1" {
		t.Errorf("expected member m1, got %q", m.ID)
	}
	if api.last.RegistrationReceiptNumber != "R-1" {
		t.Errorf("expected receipt number forwarded, got %q", api.last.RegistrationReceiptNumber)
	}
}
