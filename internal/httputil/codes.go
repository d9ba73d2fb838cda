package httputil

// Machine-readable error codes returned alongside error messages.
// Clients should branch on these rather than on message text.
const (
	CodeInvalidRequestBody    = "invalid_request_body"
	CodeEmailRequired         = "email_required"
	CodePasswordRequired      = "password_required"
	CodeNameRequired          = "name_required"
	CodePasswordTooShort      = "password_too_short"
	CodeEmailAlreadyExists    = "email_already_exists"
	CodeInvalidCredentials    = "invalid_credentials"
	CodeGoogleAccount         = "google_account"
	CodeGoogleTokenRequired   = "google_token_required"
	CodeInvalidGoogleToken    = "invalid_google_token"
	CodeGoogleIdentityInUse   = "google_identity_in_use"
	CodeMissingAuth           = "missing_auth"
	CodeInvalidAuthHeader     = "invalid_auth_header"
	CodeTokenExpired          = "token_expired"
	CodeInvalidToken          = "invalid_token"
	CodeTitleRequired         = "title_required"
	CodeInvalidTicketID       = "invalid_ticket_id"
	CodeTicketNotFound        = "ticket_not_found"
	CodeTicketAlreadyResolved = "ticket_already_resolved"
	CodeInternalError         = "internal_error"
)
