package projections

import (
	"context"

	"posme/internal/adapters/posapi"
)

// DefaultPageSize is the page size used when the caller supplies none.
const DefaultPageSize = 20

// MemberListAPI defines the backend calls needed by the member list projection.
type MemberListAPI interface {
	GetMembers(ctx context.Context, token, search string, page, limit int) (posapi.MembersPage, error)
}

// MemberListInput carries the search and paging parameters.
type MemberListInput struct {
	Token  string
	Search string
	Page   int
	Limit  int
}

// MemberListDeps holds dependencies for the member list projection.
type MemberListDeps struct {
	API MemberListAPI
}

// QueryMemberList fetches one page of members, optionally filtered by a
// search term matching name or phone digits.
// POST: Page and limit in the result reflect what the backend applied
func QueryMemberList(ctx context.Context, input MemberListInput, deps MemberListDeps) (posapi.MembersPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}

	return deps.API.GetMembers(ctx, input.Token, input.Search, page, limit)
}
