package email

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestUnconfiguredServiceLogsInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	svc := NewEmailService(SMTPConfig{}, zerolog.New(&buf))

	if err := svc.SendStudentIDEmail("ann@example.com", "Ann", "MVGR2025001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "MVGR2025001") {
		t.Errorf("log does not mention the student id: %s", buf.String())
	}

	buf.Reset()
	if err := svc.SendDigestEmail("admin@example.com", Digest{PendingLeave: 2, PendingMaintenance: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"pendingMaintenance":3`) {
		t.Errorf("digest log missing counts: %s", buf.String())
	}
}

func TestBuildMessage(t *testing.T) {
	svc := &EmailServiceImpl{config: SMTPConfig{FromName: "Hostel", FromEmail: "noreply@example.com"}}
	msg := string(svc.buildMessage("ann@example.com", "Your Student ID", StudentIDBody("Ann", "PFX2025001")))

	for _, want := range []string{
		"From: Hostel <noreply@example.com>\r\n",
		"To: ann@example.com\r\n",
		"Subject: Your Student ID\r\n",
		"PFX2025001",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}
