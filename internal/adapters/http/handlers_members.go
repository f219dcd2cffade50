package web

import (
	"net/http"

	"yople/internal/adapters/http/middleware"
	"yople/internal/application/listutil"
	"yople/internal/application/orchestrators"
	"yople/internal/application/projections"
	domainAttendance "yople/internal/domain/attendance"
)

// handleMemberList handles GET /api/members?page=&per_page=&q=
func handleMemberList(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query())
	result, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{ListParams: params}, projections.GetMemberListDeps{
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleInactiveMembers handles GET /api/members/inactive?weeks=N
func handleInactiveMembers(w http.ResponseWriter, r *http.Request) {
	weeks, ok := queryInt(r, "weeks", projections.DefaultInactiveWeeks)
	if !ok {
		badRequest(w, "주 수가 올바르지 않습니다.")
		return
	}
	today := localNow().Format(domainAttendance.DateLayout)
	result, err := projections.QueryGetInactiveMembers(r.Context(), projections.GetInactiveMembersQuery{Weeks: weeks, Today: today}, projections.GetInactiveMembersDeps{
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type memberRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	BirthDate   string `json:"birth_date"`
	IsNewMember bool   `json:"is_new_member"`
	Memo        string `json:"memo"`
}

func (m memberRequest) fields() orchestrators.MemberFields {
	return orchestrators.MemberFields{
		Name:        m.Name,
		Phone:       m.Phone,
		BirthDate:   m.BirthDate,
		IsNewMember: m.IsNewMember,
		Memo:        m.Memo,
	}
}

func registerMemberDeps() orchestrators.RegisterMemberDeps {
	return orchestrators.RegisterMemberDeps{
		MemberStore: stores.MemberStore,
		Now:         timeNow,
	}
}

// handleRegisterMember handles POST /api/members
func handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	var in memberRequest
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, "잘못된 요청입니다.")
		return
	}

	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		MemberFields: in.fields(),
		AccountID:    session.AccountID,
	}, registerMemberDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projections.NewMemberRow(m))
}

// handleUpdateMember handles PUT /api/members/{id}
func handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	var in memberRequest
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, "잘못된 요청입니다.")
		return
	}

	m, err := orchestrators.ExecuteUpdateMember(r.Context(), orchestrators.UpdateMemberInput{
		MemberID:     r.PathValue("id"),
		MemberFields: in.fields(),
		AccountID:    session.AccountID,
	}, registerMemberDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projections.NewMemberRow(m))
}

// handleDeleteMember handles DELETE /api/members/{id}
func handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	err := orchestrators.ExecuteDeleteMember(r.Context(), orchestrators.DeleteMemberInput{
		MemberID:  r.PathValue("id"),
		AccountID: session.AccountID,
	}, registerMemberDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
