package projections

import (
	"context"
	"fmt"

	memberStore "yople/internal/adapters/storage/member"
	"yople/internal/application/listutil"
	domainMember "yople/internal/domain/member"
)

// GetMemberListQuery carries query parameters.
type GetMemberListQuery struct {
	listutil.ListParams
}

// MemberRow is one roster entry on the member list.
type MemberRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	BirthDate   string `json:"birth_date,omitempty"`
	IsNewMember bool   `json:"is_new_member"`
	Memo        string `json:"memo,omitempty"`
	Cohort      string `json:"cohort"`
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Members []MemberRow       `json:"members"`
	Page    listutil.PageInfo `json:"page"`
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	MemberStore MemberStore
}

// QueryGetMemberList retrieves one page of the roster ordered by name.
// PRE: ListParams came from listutil.ParseListParams
// POST: Page.Total counts every member matching Search
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	filter := memberStore.ListFilter{Search: query.Search}
	total, err := deps.MemberStore.Count(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, fmt.Errorf("count members: %w", err)
	}
	page := listutil.NewPageInfo(query.Page, query.PerPage, total)
	filter.Limit = page.PerPage
	filter.Offset = page.Offset()

	members, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, fmt.Errorf("list members: %w", err)
	}
	rows := make([]MemberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, NewMemberRow(m))
	}
	return GetMemberListResult{Members: rows, Page: page}, nil
}

// NewMemberRow renders a roster entry for the dashboard.
func NewMemberRow(m domainMember.Member) MemberRow {
	return MemberRow{
		ID:          m.ID,
		Name:        m.Name,
		Phone:       m.Phone,
		BirthDate:   m.BirthDate,
		IsNewMember: m.IsNewMember,
		Memo:        m.Memo,
		Cohort:      m.Cohort(),
	}
}
