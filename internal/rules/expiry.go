package rules

import (
	"time"

	"github.com/termfx/reveal/internal/contract"
)

const expiryWarningWindow = 30 * 24 * time.Hour

// expiryFindings compares a certificate's RFC3339 not_after timestamp
// against the current time, producing a Finding if the certificate has
// already expired or expires within expiryWarningWindow.
func expiryFindings(code string, severity Severity, el *contract.Element, notAfter string) []Finding {
	t, err := time.Parse(time.RFC3339, notAfter)
	if err != nil {
		return nil
	}
	remaining := time.Until(t)
	if remaining > expiryWarningWindow {
		return nil
	}
	msg := "certificate for " + el.Name + " expires " + t.Format(time.RFC3339)
	if remaining < 0 {
		msg = "certificate for " + el.Name + " expired " + t.Format(time.RFC3339)
	}
	return []Finding{{
		Code:     code,
		Severity: severity,
		Message:  msg,
		Element:  el.Name,
	}}
}
