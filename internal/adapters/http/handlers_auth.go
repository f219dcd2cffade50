package web

import (
	"net/http"
	"strings"

	"yople/internal/adapters/http/middleware"
	"yople/internal/application/orchestrators"
	domainAccount "yople/internal/domain/account"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionView is what the dashboard learns about the signed-in account.
type sessionView struct {
	AccountID  string `json:"account_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Approved   bool   `json:"approved"`
	CanApprove bool   `json:"can_approve"`
	Notice     string `json:"notice,omitempty"`
}

func viewOf(s middleware.Session) sessionView {
	v := sessionView{
		AccountID:  s.AccountID,
		Email:      s.Email,
		Name:       s.Name,
		Role:       s.Role,
		Approved:   s.CanUseDashboard(),
		CanApprove: domainAccount.CanApproveRole(s.Role),
	}
	if !v.Approved {
		v.Notice = domainAccount.ErrNotApproved.Error()
	}
	return v
}

// handleLogin handles POST /login
// Accepts a JSON body or a form post (Email/Password fields, CSRF-protected).
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := strictDecode(r, &in); err != nil {
			badRequest(w, "잘못된 요청입니다.")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			badRequest(w, "잘못된 요청입니다.")
			return
		}
		in.Email = r.FormValue("Email")
		in.Password = r.FormValue("Password")
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    in.Email,
		Password: in.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		writeError(w, err)
		return
	}

	session := middleware.Session{
		AccountID: result.AccountID,
		Email:     result.Email,
		Name:      result.Name,
		Role:      result.Role,
		Approved:  result.Approved,
	}
	token, err := sessions.Create(session)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, viewOf(session))
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// handleSignUp handles POST /api/signup
// The new staff account waits for an owner or admin before it can use the dashboard.
func handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in signUpRequest
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, "잘못된 요청입니다.")
		return
	}

	acct, err := orchestrators.ExecuteSignUp(r.Context(), orchestrators.SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
	}, orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       acct.ID,
		"email":    acct.Email,
		"name":     acct.Name,
		"approved": acct.Approved,
		"message":  "가입 요청이 접수되었습니다. 승인 후 대시보드를 이용할 수 있습니다.",
	})
}

// handleMe handles GET /api/me
// Pending accounts get their session too, so the dashboard can show the waiting notice.
func handleMe(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, viewOf(session))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// handleChangePassword handles POST /api/me/password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	var in changePasswordRequest
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, "잘못된 요청입니다.")
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       session.AccountID,
		CurrentPassword: in.CurrentPassword,
		NewPassword:     in.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "비밀번호가 변경되었습니다."})
}
