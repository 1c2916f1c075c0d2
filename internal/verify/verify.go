// Package verify implements Ed25519 signature verification over the
// three canonical encodings a trace's components may have been signed
// under.
//
// Ground: quantumlife-canon-core's pkg/crypto (Ed25519Verifier,
// stdlib crypto/ed25519 usage, error-wrapping idiom) — trimmed to drop
// the algorithm-agility/PQC abstraction that package carries, since
// trace signing uses exactly one algorithm (Ed25519) across three
// historical wire encodings rather than algorithm versions.
package verify

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/CIRISAI/ciris-trace-core/internal/canonical"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracecoreerrors"
)

// Encoding identifies which canonical encoding a verification attempt
// used. On total failure the result and its reason string name the
// modern encoding, the first one tried.
type Encoding string

const (
	EncodingModern       Encoding = "modern"
	EncodingIntermediate Encoding = "intermediate"
	EncodingLegacy       Encoding = "legacy"
)

// order is the list verify.Trace drives: modern first (new
// deployments), then intermediate, then legacy. Extending to a future
// encoding means one entry here plus its encoder case in Trace.
var order = []Encoding{EncodingModern, EncodingIntermediate, EncodingLegacy}

// Result carries the outcome of a verification attempt.
type Result struct {
	Verified bool
	Encoding Encoding
	Err      error
}

// DecodeSignature tolerantly base64-decodes signature bytes: it tries
// URL-safe-no-pad first, then standard encoding.
func DecodeSignature(sig string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(sig); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(sig); err == nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", tracecoreerrors.ErrSignatureDecode, sig)
}

// DecodePublicKey decodes a 32-byte raw Ed25519 public key from its
// catalog base64 representation.
func DecodePublicKey(b64 string) (ed25519.PublicKey, error) {
	b, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tracecoreerrors.ErrKeyDecode, err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", tracecoreerrors.ErrKeyDecode, ed25519.PublicKeySize, len(b))
	}
	return ed25519.PublicKey(b), nil
}

// Trace verifies signature against the trace's "components"/"trace_level"
// subtree under public key pub, trying each canonical encoding in order
// and returning on the first success. On total failure, it returns the
// modern-encoding result (so the reason string names the first
// encoding tried).
func Trace(pub ed25519.PublicKey, signature []byte, rawComponents, traceLevel any) Result {
	for _, enc := range order {
		var msg []byte
		switch enc {
		case EncodingModern:
			msg = canonical.Modern(rawComponents, traceLevel)
		case EncodingIntermediate:
			msg = canonical.Intermediate(rawComponents)
		case EncodingLegacy:
			msg = canonical.Legacy(rawComponents)
		}
		if ed25519.Verify(pub, msg, signature) {
			return Result{Verified: true, Encoding: enc}
		}
	}

	modernErr := fmt.Errorf("%w: encoding=%s", tracecoreerrors.ErrSignatureVerification, EncodingModern)
	return Result{Verified: false, Encoding: EncodingModern, Err: modernErr}
}

// Order returns the encodings Trace tries, in priority order.
func Order() []Encoding {
	out := make([]Encoding, len(order))
	copy(out, order)
	return out
}
