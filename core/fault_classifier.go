package core

import (
	"encoding/json"
	"net/http"
	"strings"
)

const DefaultExpiredAccessTokenCode = "INVALID_EXPIRED_ACCESS_TOKEN"

// FaultClassifier matches failed responses against the expired-credential
// signature: 401 plus the server error code. A 401/403 without that code is an
// authorization problem a new token cannot fix.
type FaultClassifier struct {
	ExpiredCode string
}

func NewFaultClassifier(expiredCode string) FaultClassifier {
	expiredCode = strings.TrimSpace(expiredCode)
	if expiredCode == "" {
		expiredCode = DefaultExpiredAccessTokenCode
	}
	return FaultClassifier{ExpiredCode: expiredCode}
}

func (c FaultClassifier) Classify(res Response) FaultKind {
	kind, _ := c.classify(res)
	return kind
}

func (c FaultClassifier) classify(res Response) (FaultKind, string) {
	serverCode := serverErrorCode(res.Body)
	switch res.StatusCode {
	case http.StatusUnauthorized:
		expected := strings.TrimSpace(c.ExpiredCode)
		if expected == "" {
			expected = DefaultExpiredAccessTokenCode
		}
		if serverCode == expected {
			return FaultExpiredAccessCredential, serverCode
		}
		return FaultUnrelatedAuth, serverCode
	case http.StatusForbidden:
		return FaultUnrelatedAuth, serverCode
	default:
		return FaultOther, serverCode
	}
}

// Fault returns nil for successful responses.
func (c FaultClassifier) Fault(call Call, res Response) error {
	if res.Succeeded() {
		return nil
	}
	kind, serverCode := c.classify(res)
	return NewResponseFault(call, res, kind, serverCode)
}

type serverErrorBody struct {
	Code string `json:"code"`
}

func serverErrorCode(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	decoded := serverErrorBody{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}
	return strings.TrimSpace(decoded.Code)
}
