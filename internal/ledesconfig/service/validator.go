package service

import (
	"fmt"
	"strings"

	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
)

// Validate checks a create request and returns every violation found. A nil
// return means the request is clean.
func Validate(req ledesdomain.CreateRequest) ledesdomain.ValidationErrors {
	var violations ledesdomain.ValidationErrors

	if strings.TrimSpace(req.ClientID) == "" {
		violations = append(violations, ledesdomain.ValidationError{
			Field:   "client_id",
			Code:    ledesdomain.CodeMissingClientID,
			Message: "client id is required",
		})
	}
	if strings.TrimSpace(req.ClientName) == "" {
		violations = append(violations, ledesdomain.ValidationError{
			Field:   "client_name",
			Code:    ledesdomain.CodeMissingClientName,
			Message: "client name is required",
		})
	}
	if !ledesdomain.Format(req.Format).Valid() {
		violations = append(violations, ledesdomain.ValidationError{
			Field:   "format",
			Code:    ledesdomain.CodeInvalidFormat,
			Message: fmt.Sprintf("unsupported format %q", req.Format),
		})
	}

	if req.UTBMSMapping == nil {
		violations = append(violations, ledesdomain.ValidationError{
			Field:   "utbms_mapping",
			Code:    ledesdomain.CodeMissingUTBMSMapping,
			Message: "utbms mapping is required",
		})
		return violations
	}

	violations = append(violations, validateMapping(*req.UTBMSMapping)...)
	return violations
}

func validateMapping(m ledesdomain.UTBMSMapping) ledesdomain.ValidationErrors {
	var violations ledesdomain.ValidationErrors

	if _, ok := ledesdomain.ActivityCodes[m.DefaultActivityCode]; !ok {
		violations = append(violations, ledesdomain.ValidationError{
			Field:   "utbms_mapping.default_activity_code",
			Code:    ledesdomain.CodeInvalidActivityCode,
			Message: fmt.Sprintf("unknown activity code %q", m.DefaultActivityCode),
		})
	}
	if _, ok := ledesdomain.ExpenseCodes[m.DefaultExpenseCode]; !ok {
		violations = append(violations, ledesdomain.ValidationError{
			Field:   "utbms_mapping.default_expense_code",
			Code:    ledesdomain.CodeInvalidExpenseCode,
			Message: fmt.Sprintf("unknown expense code %q", m.DefaultExpenseCode),
		})
	}

	for firmCode, code := range m.ActivityCodes {
		if _, ok := ledesdomain.ActivityCodes[code]; !ok {
			violations = append(violations, ledesdomain.ValidationError{
				Field:   "utbms_mapping.activity_codes." + firmCode,
				Code:    ledesdomain.CodeInvalidActivityCode,
				Message: fmt.Sprintf("unknown activity code %q", code),
			})
		}
	}
	for firmCode, code := range m.ExpenseCodes {
		if _, ok := ledesdomain.ExpenseCodes[code]; !ok {
			violations = append(violations, ledesdomain.ValidationError{
				Field:   "utbms_mapping.expense_codes." + firmCode,
				Code:    ledesdomain.CodeInvalidExpenseCode,
				Message: fmt.Sprintf("unknown expense code %q", code),
			})
		}
	}

	return violations
}
