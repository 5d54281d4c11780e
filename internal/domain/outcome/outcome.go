package outcome

// Package outcome translates opaque server outcome codes into stable, user-facing results.
// It is pure and shared by every flow that surfaces a message to the user, so the same
// code always yields the same message.

import "strings"

// Code is the short opaque string the backend returns to identify a result (e.g. "E005").
type Code string

// Severity tells presenters how to render an outcome.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Kind is the stable taxonomy bucket an outcome belongs to.
type Kind string

const (
	KindUnexpectedError    Kind = "unexpected_error"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindValidationError    Kind = "validation_error"
	KindRateLimited        Kind = "rate_limited"
	KindAccountLocked      Kind = "account_locked"
	KindNotAuthenticated   Kind = "not_authenticated"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"

	KindLoginSucceeded          Kind = "login_succeeded"
	KindLogoutSucceeded         Kind = "logout_succeeded"
	KindRegistrationSucceeded   Kind = "registration_succeeded"
	KindCreateSucceeded         Kind = "create_succeeded"
	KindFetchSucceeded          Kind = "fetch_succeeded"
	KindFetchDetailSucceeded    Kind = "fetch_detail_succeeded"
	KindUpdateSucceeded         Kind = "update_succeeded"
	KindDeleteSucceeded         Kind = "delete_succeeded"
	KindAggregateFetchSucceeded Kind = "aggregate_fetch_succeeded"
)

// Well-known codes referenced directly by the gate.
const (
	CodeUnexpected         Code = "E000"
	CodeInvalidCredentials Code = "E001"
	CodeValidation         Code = "E002"
	CodeTooManyRequests    Code = "E003"
	CodeAccountLocked      Code = "E004"
	CodeNotAuthenticated   Code = "E005"
	CodeUnauthorized       Code = "E006"
	CodeForbidden          Code = "E007"

	CodeLoginSuccess        Code = "S001"
	CodeLogoutSuccess       Code = "S002"
	CodeRegistrationSuccess Code = "S003"
)

// Outcome is the user-facing result of one operation.
type Outcome struct {
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
}

// IsSuccess reports whether the outcome belongs to the success family.
func (o Outcome) IsSuccess() bool { return o.Severity == SeveritySuccess }

type entry struct {
	message string
	kind    Kind
}

// table is fixed at build time. Severity is not stored here; it is derived from the
// code prefix so the two can never disagree.
//
//nolint:gochecknoglobals // read-only lookup table
var table = map[Code]entry{
	"E000": {"An unexpected error occurred.", KindUnexpectedError},
	"E001": {"Invalid credentials. Please check your username and password.", KindInvalidCredentials},
	"E002": {"Validation error. Please check your input.", KindValidationError},
	"E003": {"Too many requests. Please try again later.", KindRateLimited},
	"E004": {"Account is locked due to multiple failed login attempts.", KindAccountLocked},
	"E005": {"Not authenticated. Please log in.", KindNotAuthenticated},
	"E006": {"Unauthorized access.", KindUnauthorized},
	"E007": {"Forbidden. You don't have permission to access this resource.", KindForbidden},
	"E008": {"Medication not found.", KindNotFound},
	"E009": {"Refill request not found.", KindNotFound},

	"S001": {"Login successful.", KindLoginSucceeded},
	"S002": {"Logout successful.", KindLogoutSucceeded},
	"S003": {"Registration successful.", KindRegistrationSucceeded},
	"S004": {"Medication added successfully.", KindCreateSucceeded},
	"S005": {"Medications fetched successfully.", KindFetchSucceeded},
	"S006": {"Medication details fetched successfully.", KindFetchDetailSucceeded},
	"S007": {"Medication updated successfully.", KindUpdateSucceeded},
	"S008": {"Medication deleted successfully.", KindDeleteSucceeded},
	"S009": {"Refill requests fetched successfully.", KindFetchSucceeded},
	"S010": {"Refill request created successfully.", KindCreateSucceeded},
	"S011": {"Refill request updated successfully.", KindUpdateSucceeded},
	"S012": {"Refill request details fetched successfully.", KindFetchDetailSucceeded},
	"S013": {"Refill request statistics fetched successfully.", KindAggregateFetchSucceeded},
}

// Translate maps a server code to its outcome. It is total: an empty or unmapped code
// resolves to the E000 fallback. Surrounding whitespace is ignored.
func Translate(code string) Outcome {
	c := Code(strings.TrimSpace(code))
	e, ok := table[c]
	if !ok {
		c = CodeUnexpected
		e = table[c]
	}
	return Outcome{
		Code:     c,
		Message:  e.message,
		Severity: severityOf(c),
		Kind:     e.kind,
	}
}

// Fallback returns the outcome used when no usable code is available.
func Fallback() Outcome { return Translate(string(CodeUnexpected)) }

// Known reports whether code is present in the table.
func Known(code string) bool {
	_, ok := table[Code(strings.TrimSpace(code))]
	return ok
}

// Codes returns every mapped code. The order is unspecified.
func Codes() []Code {
	out := make([]Code, 0, len(table))
	for c := range table {
		out = append(out, c)
	}
	return out
}

func severityOf(c Code) Severity {
	if strings.HasPrefix(string(c), "S") {
		return SeveritySuccess
	}
	return SeverityError
}
