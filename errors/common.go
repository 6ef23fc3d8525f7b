package errors

import "fmt"

func InvalidParamsErr(err error) error {
	return E(Invalid, "invalid params", err)
}

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid request body", err)
}

func ValidationFailedErr(err error) error {
	return E(Invalid, "validation failed", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

func SessionNotFoundErr(sessionID string) error {
	return E(NotFound, fmt.Sprintf("session %s not found", sessionID), nil)
}

func TransactionNotFoundErr(reference string) error {
	return E(NotFound, fmt.Sprintf("transaction %s not found", reference), nil)
}

func InvalidAmountErr(raw string) error {
	return E(Invalid, fmt.Sprintf("invalid amount %q: must be positive with at most 2 decimal places", raw), nil)
}

func InsufficientBalanceErr(requested, available float64) error {
	return E(Unprocessable, fmt.Sprintf("requested %.2f exceeds available balance %.2f", requested, available), nil)
}

// CollaboratorErr wraps a failure from a remote provider so callers can
// tell it apart from local validation failures.
func CollaboratorErr(name string, err error) error {
	return E(Internal, fmt.Sprintf("%s request failed", name), err)
}
