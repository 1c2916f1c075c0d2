// Package tracecoreerrors defines the sentinel errors produced while
// processing a trace. Every error here is non-fatal to the batch: the
// pipeline converts it into a Malformed verdict for the offending trace
// and continues with the next one.
package tracecoreerrors

import "errors"

// Parse and schema errors.
var (
	// ErrParse is returned when a trace is not valid JSON.
	ErrParse = errors.New("json parse error")

	// ErrSchemaNotMatched is returned when a trace's event set matches no
	// schema in the catalog.
	ErrSchemaNotMatched = errors.New("no schema matched event set")

	// ErrSchemaNotLoaded names the degraded "catalog not loaded" path.
	// It is not itself a rejection reason (the trace is still accepted
	// under the "unknown" schema version), and no function in this module
	// returns it: degraded acceptance shows up as detect.UnknownVersion.
	ErrSchemaNotLoaded = errors.New("schema catalog not loaded")
)

// Signature errors.
var (
	// ErrSignatureMissing is returned when a trace carries no signature,
	// whether or not it carries a signature_key_id.
	ErrSignatureMissing = errors.New("no signature provided")

	// ErrSignatureKeyIDMissing is returned when a trace carries a
	// signature but no signature_key_id.
	ErrSignatureKeyIDMissing = errors.New("signature key id missing")

	// ErrUnknownSignerKey is returned when signature_key_id does not
	// resolve to any key in the key catalog.
	ErrUnknownSignerKey = errors.New("unknown signer key id")

	// ErrSignatureDecode is returned when the signature cannot be
	// base64-decoded under either tolerated encoding.
	ErrSignatureDecode = errors.New("signature decode error")

	// ErrSignatureVerification is returned when none of the canonical
	// encodings produce a valid Ed25519 signature.
	ErrSignatureVerification = errors.New("signature verification failed")
)

// Non-rejecting, logged-only conditions.
var (
	// ErrFieldRequiredButMissing marks a required field extraction rule
	// that did not resolve. Logged as a warning, never a rejection.
	ErrFieldRequiredButMissing = errors.New("required field missing")

	// ErrKeyDecode is returned when a single key catalog entry fails to
	// base64-decode or has the wrong length; collected per-key during a
	// bulk load without aborting the load.
	ErrKeyDecode = errors.New("key decode error")
)
