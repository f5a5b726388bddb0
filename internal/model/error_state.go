package model

// ErrorState is the failure recorded by the capture layer for a target.
// Pages with a non-empty ErrorState skip classification and are listed in
// the Errors section of the report.
type ErrorState string

// Known capture failures. Other non-empty values are kept verbatim.
const (
	ErrorTimeout      ErrorState = "Timeout"
	ErrorBadStatus    ErrorState = "BadStatus"
	ErrorConnReset    ErrorState = "ConnReset"
	ErrorConnRefuse   ErrorState = "ConnRefuse"
	ErrorSSLHandshake ErrorState = "SSLHandshake"
)

// Description returns the text shown in place of the screenshot.
func (e ErrorState) Description() string {
	switch e {
	case ErrorTimeout:
		return "Hit timeout limit while attempting to screenshot"
	case ErrorBadStatus:
		return "Unknown error while attempting to screenshot"
	case ErrorConnReset:
		return "Connection Reset"
	case ErrorConnRefuse:
		return "Connection Refused"
	case ErrorSSLHandshake:
		return "SSL Handshake Error"
	case "":
		return ""
	default:
		return string(e)
	}
}
