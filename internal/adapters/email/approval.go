package email

import (
	"bytes"
	"html/template"
)

var approvalBody = template.Must(template.New("approval").Parse(
	`<p>{{.Name}}님, 안녕하세요.</p>
<p>청년부 출석 관리 계정 가입이 승인되었습니다. 이제 로그인하여 대시보드를 이용할 수 있습니다.</p>
<p>로그인 이메일: {{.Email}}</p>`))

// ApprovalNotice builds the email sent when an owner or admin approves a sign-up.
func ApprovalNotice(to, name string) (SendRequest, error) {
	if name == "" {
		name = to
	}
	var buf bytes.Buffer
	if err := approvalBody.Execute(&buf, struct{ Name, Email string }{name, to}); err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:      []string{to},
		Subject: "[청년부 출석] 가입이 승인되었습니다",
		HTML:    buf.String(),
	}, nil
}
