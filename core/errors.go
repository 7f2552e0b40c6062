package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorAccessTokenExpired    = "AUTH_ACCESS_TOKEN_EXPIRED"
	ErrorUnauthorized          = "AUTH_UNAUTHORIZED"
	ErrorForbidden             = "AUTH_FORBIDDEN"
	ErrorRefreshIrrecoverable  = "AUTH_REFRESH_IRRECOVERABLE"
	ErrorRefreshFailed         = "AUTH_REFRESH_FAILED"
	ErrorUpstreamFault         = "AUTH_UPSTREAM_FAULT"
	ErrorBadInput              = "AUTH_BAD_INPUT"
	ErrorInternal              = "AUTH_INTERNAL_ERROR"
	metadataFaultKind          = "fault_kind"
	metadataServerCode         = "server_code"
	metadataStatusCode         = "status_code"
	metadataRefreshUnrecovered = "refresh_irrecoverable"
)

// NewResponseFault builds the error returned alongside a failed response.
func NewResponseFault(call Call, res Response, kind FaultKind, serverCode string) *goerrors.Error {
	category := goerrors.CategoryExternal
	textCode := ErrorUpstreamFault
	message := "core: upstream call failed"
	switch kind {
	case FaultExpiredAccessCredential:
		category = goerrors.CategoryAuth
		textCode = ErrorAccessTokenExpired
		message = "core: access credential expired"
	case FaultUnrelatedAuth:
		if res.StatusCode == http.StatusForbidden {
			category = goerrors.CategoryAuthz
			textCode = ErrorForbidden
			message = "core: call forbidden"
		} else {
			category = goerrors.CategoryAuth
			textCode = ErrorUnauthorized
			message = "core: call unauthorized"
		}
	}
	return goerrors.New(message, category).
		WithCode(res.StatusCode).
		WithTextCode(textCode).
		WithMetadata(map[string]any{
			metadataFaultKind:  kind.String(),
			metadataServerCode: serverCode,
			metadataStatusCode: res.StatusCode,
			"call_id":          call.ID,
			"method":           call.Method,
			"url":              call.URL,
		})
}

// NewRefreshIrrecoverableError reports a refresh the session cannot survive:
// the refresh call was rejected with 401/403, or no refresh token is stored.
func NewRefreshIrrecoverableError(message string, statusCode int, source error) *goerrors.Error {
	if statusCode == 0 {
		statusCode = http.StatusUnauthorized
	}
	var err *goerrors.Error
	if source != nil {
		err = goerrors.Wrap(source, goerrors.CategoryAuth, message)
	} else {
		err = goerrors.New(message, goerrors.CategoryAuth)
	}
	return err.
		WithCode(statusCode).
		WithTextCode(ErrorRefreshIrrecoverable).
		WithMetadata(map[string]any{
			metadataRefreshUnrecovered: true,
			metadataStatusCode:         statusCode,
		})
}

// NewRefreshTransientError reports a refresh failure that leaves the stored
// refresh token potentially valid.
func NewRefreshTransientError(message string, statusCode int, source error) *goerrors.Error {
	if statusCode == 0 {
		statusCode = http.StatusBadGateway
	}
	var err *goerrors.Error
	if source != nil {
		err = goerrors.Wrap(source, goerrors.CategoryExternal, message)
	} else {
		err = goerrors.New(message, goerrors.CategoryExternal)
	}
	return err.
		WithCode(statusCode).
		WithTextCode(ErrorRefreshFailed).
		WithMetadata(map[string]any{
			metadataRefreshUnrecovered: false,
			metadataStatusCode:         statusCode,
		})
}

func badInputError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
}

func internalError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorInternal)
}

// IsRefreshIrrecoverable reports whether err means the session must end.
func IsRefreshIrrecoverable(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return strings.TrimSpace(richErr.TextCode) == ErrorRefreshIrrecoverable
}

func isRefreshError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	switch strings.TrimSpace(richErr.TextCode) {
	case ErrorRefreshIrrecoverable, ErrorRefreshFailed:
		return true
	}
	return false
}

// FaultKindOf recovers the classification attached by NewResponseFault. Errors
// without one (network failures, dependency errors) are FaultOther.
func FaultKindOf(err error) FaultKind {
	if err == nil {
		return FaultOther
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return FaultOther
	}
	switch strings.TrimSpace(richErr.TextCode) {
	case ErrorAccessTokenExpired:
		return FaultExpiredAccessCredential
	case ErrorUnauthorized, ErrorForbidden:
		return FaultUnrelatedAuth
	default:
		return FaultOther
	}
}
