package web

import (
	"net/http"

	"yople/internal/application/orchestrators"
)

func checkInDeps() orchestrators.CheckInDeps {
	return orchestrators.CheckInDeps{
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
		Location:        location,
		Now:             timeNow,
	}
}

type kioskLookupRequest struct {
	Digits string `json:"digits"`
}

// handleKioskLookup handles POST /api/checkin/lookup
// One match is checked in immediately; several come back as candidates.
func handleKioskLookup(w http.ResponseWriter, r *http.Request) {
	var in kioskLookupRequest
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, orchestrators.ErrInvalidDigits.Error())
		return
	}
	result, err := orchestrators.ExecuteKioskLookup(r.Context(), orchestrators.KioskLookupInput{Digits: in.Digits}, checkInDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type checkInRequest struct {
	MemberID string `json:"member_id"`
}

// handleCheckInMember handles POST /api/checkin
func handleCheckInMember(w http.ResponseWriter, r *http.Request) {
	var in checkInRequest
	if err := strictDecode(r, &in); err != nil || in.MemberID == "" {
		badRequest(w, "청년을 선택하세요.")
		return
	}
	result, err := orchestrators.ExecuteCheckInMember(r.Context(), orchestrators.CheckInMemberInput{MemberID: in.MemberID}, checkInDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleVisitorCheckIn handles POST /api/checkin/visitor
func handleVisitorCheckIn(w http.ResponseWriter, r *http.Request) {
	v, err := orchestrators.ExecuteVisitorCheckIn(r.Context(), orchestrators.VisitorCheckInDeps{
		VisitorStore: stores.VisitorStore,
		Location:     location,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      v.ID,
		"date":    v.Date,
		"message": orchestrators.MsgVisitorRecorded,
	})
}
