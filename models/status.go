package models

import (
	// Go Internal Packages
	"fmt"
)

// Provider response codes. 2000 and 2001 are both plain declines; the
// provider emits either depending on which leg of the network failed.
const (
	CodeSuccess             = "0000"
	CodePending             = "0001"
	CodeHTTPFailure         = "0005"
	CodeGeneralFailure      = "2000"
	CodeGeneralFailureAlt   = "2001"
	CodeTransientError      = "2100"
	CodeValidationError     = "4000"
	CodeAuthDenied          = "4010"
	CodePermissionDenied    = "4030"
	CodeInsufficientBalance = "4075"
)

// Classification statuses.
const (
	ClassPaid    = "Paid"
	ClassPending = "Pending"
	ClassFailed  = "Failed"
	ClassUnknown = "Unknown"
)

// StatusClassification is the uniform reading of a provider response
// code, shared by the callback processor and the status poller.
type StatusClassification struct {
	IsSuccessful bool
	Status       string
	ShouldRetry  bool
	Message      string
}

// ClassifyResponseCode maps a provider response code to its meaning.
// Pure: same code in, same classification out. Unknown codes are
// surfaced verbatim and never retried.
func ClassifyResponseCode(code string) StatusClassification {
	switch code {
	case CodeSuccess:
		return StatusClassification{IsSuccessful: true, Status: ClassPaid, ShouldRetry: false, Message: "payment successful"}
	case CodePending:
		return StatusClassification{IsSuccessful: false, Status: ClassPending, ShouldRetry: true, Message: "payment still in flight"}
	case CodeHTTPFailure:
		return StatusClassification{IsSuccessful: false, Status: ClassUnknown, ShouldRetry: false, Message: "provider http failure, state unknown, check manually"}
	case CodeGeneralFailure, CodeGeneralFailureAlt:
		return StatusClassification{IsSuccessful: false, Status: ClassFailed, ShouldRetry: false, Message: "payment declined"}
	case CodeTransientError:
		return StatusClassification{IsSuccessful: false, Status: ClassPending, ShouldRetry: true, Message: "temporary provider error"}
	case CodeValidationError:
		return StatusClassification{IsSuccessful: false, Status: ClassFailed, ShouldRetry: false, Message: "invalid request parameters"}
	case CodeAuthDenied:
		return StatusClassification{IsSuccessful: false, Status: ClassFailed, ShouldRetry: false, Message: "authentication denied"}
	case CodePermissionDenied:
		return StatusClassification{IsSuccessful: false, Status: ClassFailed, ShouldRetry: false, Message: "permission denied for this scope"}
	case CodeInsufficientBalance:
		return StatusClassification{IsSuccessful: false, Status: ClassFailed, ShouldRetry: false, Message: "merchant balance too low"}
	}
	return StatusClassification{IsSuccessful: false, Status: ClassUnknown, ShouldRetry: false, Message: fmt.Sprintf("unrecognised response code %q", code)}
}
