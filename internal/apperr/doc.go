// Package apperr provides the typed error taxonomy shared by ctxlog and its consumers.
//
// # Overview
//
// Every error built here carries a structured diagnostic context:
//   - Kind: the taxonomy discriminator (BaseError, ValidationError, ...)
//   - Component and Operation: where the error was raised
//   - Details: optional structured data, nil when empty
//   - ID: a unique identifier for correlating the error with log records
//
// Component and Operation are inferred from the constructor's caller when not
// given explicitly:
//
//	func (s *OrderStore) Save(o Order) error {
//	    return apperr.New("write failed")      // component "orderstore", operation "Save"
//	}
//
// Inference is best effort. When the frame cannot be resolved the error reports
// "unknown"/"unknown". Pass WithComponent and WithOperation when the values matter.
//
// # Taxonomy
//
//   - ConfigurationError: malformed wiring, fatal at startup
//   - ValidationError: malformed input, recoverable
//   - BusinessLogicError: domain rule violation, recoverable
//   - NotImplementedError: abstract contract reached, always a programming bug
//   - TypeError: API misuse (wrong argument shape)
//
// # Matching
//
// Kind implements error, so errors.Is matches by kind:
//
//	if errors.Is(err, apperr.KindValidation) { ... }
//
// errors.As works for *BaseError on every kind, and for the subtype structs:
//
//	var ve *apperr.ValidationError
//	if errors.As(err, &ve) {
//	    fmt.Println(ve.Field, ve.Rule)
//	}
//
// # Logging
//
// Errors implement zapcore.ObjectMarshaler and zerolog.LogObjectMarshaler, so they
// render as structured objects on either logging backend.
package apperr
