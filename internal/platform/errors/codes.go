// Package errors provides structured error handling for planning operations.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Input validation errors
	CodeValidation  Code = "VALIDATION"
	CodeInvalidDate Code = "INVALID_DATE"
	CodeInvalidSlot Code = "INVALID_SLOT"

	// Assignment errors
	CodePastDate              Code = "PAST_DATE"
	CodeNotAvailable          Code = "NOT_AVAILABLE"
	CodeSlotConflict          Code = "SLOT_CONFLICT"
	CodeCompleteNightConflict Code = "COMPLETE_NIGHT_CONFLICT"

	// Availability errors
	CodeAvailabilityLocked Code = "AVAILABILITY_LOCKED"

	// Performer errors
	CodePerformerInactive Code = "PERFORMER_INACTIVE"
	CodeDuplicateIdentity Code = "DUPLICATE_IDENTITY"
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeValidation,
		CodeInvalidDate,
		CodeInvalidSlot:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodePastDate,
		CodeNotAvailable,
		CodeAvailabilityLocked,
		CodePerformerInactive:
		return codes.FailedPrecondition

	// AlreadyExists - uniqueness conflicts
	case CodeSlotConflict,
		CodeCompleteNightConflict,
		CodeDuplicateIdentity:
		return codes.AlreadyExists

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// Unauthenticated - credential checks
	case CodeInvalidCredential:
		return codes.Unauthenticated

	default:
		return codes.Internal
	}
}
