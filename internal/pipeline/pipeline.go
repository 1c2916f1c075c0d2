// Package pipeline composes the JSON path resolver, canonical encoder,
// signature verifier, schema catalog, key catalog, schema detector, PII
// scrubber, threat scanner, metadata extractor, and router into a
// single batch-processing operation.
//
// The pipeline is a pure function over (request, schema cache, key
// cache) → batch verdict: it performs no I/O, never blocks, and never
// panics out of a single trace's processing — every error becomes a
// Malformed record for that trace while the rest of the batch proceeds.
package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/CIRISAI/ciris-trace-core/internal/catalog"
	"github.com/CIRISAI/ciris-trace-core/internal/detect"
	"github.com/CIRISAI/ciris-trace-core/internal/extract"
	"github.com/CIRISAI/ciris-trace-core/internal/pii"
	"github.com/CIRISAI/ciris-trace-core/internal/route"
	"github.com/CIRISAI/ciris-trace-core/internal/threat"
	"github.com/CIRISAI/ciris-trace-core/internal/traceparse"
	"github.com/CIRISAI/ciris-trace-core/internal/verify"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracecoreerrors"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

// Request is the input to ProcessBatch.
type Request struct {
	Traces           []string   `json:"traces"`
	BatchTimestamp   string     `json:"batch_timestamp"`    // RFC 3339
	ConsentTimestamp string     `json:"consent_timestamp"`  // RFC 3339, optional
	Tier             route.Tier `json:"tier"`
	Correlation      string     `json:"correlation,omitempty"` // opaque correlation metadata
}

// TraceRecord is the per-trace outcome of a batch.
type TraceRecord struct {
	TraceID           string            `json:"trace_id"`
	Destination       route.Destination `json:"destination"`
	SchemaVersion     *string           `json:"schema_version"`
	Accepted          bool              `json:"accepted"`
	RejectionReason   *string           `json:"rejection_reason"`
	ExtractedMetadata map[string]string `json:"extracted_metadata"`
}

// Response is the output of ProcessBatch.
type Response struct {
	BatchID       string        `json:"batch_id"`
	ReceivedCount int           `json:"received_count"`
	AcceptedCount int           `json:"accepted_count"`
	RejectedCount int           `json:"rejected_count"`
	Traces        []TraceRecord `json:"traces"`
}

// Pipeline holds the two read-mostly catalogs and processes batches
// against them. It carries no other mutable state except the
// degraded-acceptance counter tracking how many traces were accepted
// while the schema catalog was unloaded.
type Pipeline struct {
	Schemas *catalog.SchemaCatalog
	Keys    *catalog.KeyCatalog
	Log     *slog.Logger

	unknownSchemaAccepts int
}

// New constructs a Pipeline over the given catalogs. log may be nil, in
// which case slog.Default() is used.
func New(schemas *catalog.SchemaCatalog, keys *catalog.KeyCatalog, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Schemas: schemas, Keys: keys, Log: log}
}

// UnknownSchemaAccepts returns how many traces this pipeline has
// accepted under the degraded "catalog not loaded" path since
// construction — an operator-facing metric for catalog-staleness
// monitoring.
func (p *Pipeline) UnknownSchemaAccepts() int {
	return p.unknownSchemaAccepts
}

// ProcessBatch runs every trace in req.Traces independently, in order,
// and returns one record per trace. The received count always equals
// accepted plus rejected, and output order always matches input order.
func (p *Pipeline) ProcessBatch(req Request) (Response, error) {
	batchID, err := newBatchID()
	if err != nil {
		return Response{}, fmt.Errorf("generate batch id: %w", err)
	}

	resp := Response{
		BatchID:       batchID,
		ReceivedCount: len(req.Traces),
		Traces:        make([]TraceRecord, len(req.Traces)),
	}

	for i, raw := range req.Traces {
		rec := p.processOne(raw, req)
		resp.Traces[i] = rec
		if rec.Accepted {
			resp.AcceptedCount++
		} else {
			resp.RejectedCount++
		}
	}

	return resp, nil
}

func (p *Pipeline) processOne(raw string, req Request) TraceRecord {
	trace, err := traceparse.Parse(raw)
	if err != nil {
		return malformed(tracetypes.UnknownTraceID, nil, fmt.Sprintf("JSON parse error: %s", err))
	}

	det := detect.Detect(p.Schemas, trace.EventTypeSet())
	if !det.Valid {
		return malformed(trace.TraceID, nil, det.Reason)
	}

	if det.Version == detect.UnknownVersion {
		p.unknownSchemaAccepts++
	}

	if det.Schema.IsConnectivity() {
		extracted := extract.Connectivity(trace)
		version := det.Version
		return TraceRecord{
			TraceID:           trace.TraceID,
			Destination:       route.DestinationConnectivity,
			SchemaVersion:     &version,
			Accepted:          true,
			ExtractedMetadata: extracted,
		}
	}

	version := det.Version
	verified, sigReason := p.verifySignature(trace)
	if sigReason != "" {
		rec := malformed(trace.TraceID, &version, sigReason)
		if p.Keys.Empty() {
			rec.ExtractedMetadata = map[string]string{"signature_verified": boolString(verified)}
		}
		return rec
	}

	workingRaw := trace.Raw
	workingComponents := trace.Components
	var piiCounters pii.Counters
	if req.Tier.ScrubsPII() {
		scrubbedRaw, counters := pii.Scrub(trace.Raw)
		piiCounters = counters
		if m, ok := scrubbedRaw.(map[string]any); ok {
			workingRaw = m
		}
		workingComponents = scrubComponents(trace.Components)
	}

	scan := threat.Scan(workingRaw)
	if scan.Flagged() {
		p.Log.Warn("threat scan flagged trace",
			"trace_id", trace.TraceID,
			"counts", scan.Counts,
			"oversize_fields", scan.OversizeFields,
		)
	}

	extracted := extract.Components(p.Schemas, version, workingComponents, p.Log)
	extracted["signature_verified"] = boolString(verified)
	if trace.SignatureKeyID != "" {
		extracted["signature_key_id"] = trace.SignatureKeyID
	}
	if req.Correlation != "" {
		extracted["correlation_id"] = req.Correlation
	}
	if req.ConsentTimestamp != "" {
		extracted["consent_timestamp"] = req.ConsentTimestamp
	}
	if piiCounters.FieldsModified > 0 {
		p.Log.Debug("pii scrubbed", "trace_id", trace.TraceID, "fields_modified", piiCounters.FieldsModified, "counts", piiCounters.Counts)
	}

	if version == detect.UnknownVersion {
		p.unknownSchemaAccepts++
	}

	dest := route.Classify(extracted, req.Tier)
	return TraceRecord{
		TraceID:           trace.TraceID,
		Destination:       dest,
		SchemaVersion:     &version,
		Accepted:          true,
		ExtractedMetadata: extracted,
	}
}

// verifySignature resolves the "signature_verified contract" decision
// recorded in DESIGN.md: with no key material loaded, the trace is
// rejected, not accepted-with-warning.
func (p *Pipeline) verifySignature(trace tracetypes.Trace) (verified bool, rejectionReason string) {
	if p.Keys.Empty() {
		return false, fmt.Sprintf("%s: no key material loaded (operator mode)", tracecoreerrors.ErrSignatureVerification)
	}
	if trace.Signature == "" && trace.SignatureKeyID == "" {
		return false, tracecoreerrors.ErrSignatureMissing.Error()
	}
	if trace.Signature == "" {
		return false, tracecoreerrors.ErrSignatureMissing.Error()
	}
	if trace.SignatureKeyID == "" {
		return false, tracecoreerrors.ErrSignatureKeyIDMissing.Error()
	}

	pub, ok := p.Keys.Get(trace.SignatureKeyID)
	if !ok {
		return false, fmt.Sprintf("%s: %s", tracecoreerrors.ErrUnknownSignerKey, trace.SignatureKeyID)
	}

	sigBytes, err := verify.DecodeSignature(trace.Signature)
	if err != nil {
		return false, err.Error()
	}

	decoded, err := canonicalDecode(trace.RawJSON)
	if err != nil {
		return false, fmt.Sprintf("%s: %s", tracecoreerrors.ErrSignatureVerification, err)
	}
	components, traceLevel := componentsAndLevel(decoded)

	res := verify.Trace(pub, sigBytes, components, traceLevel)
	if !res.Verified {
		return false, res.Err.Error()
	}
	return true, ""
}

func malformed(traceID string, version *string, reason string) TraceRecord {
	return TraceRecord{
		TraceID:         traceID,
		Destination:     route.DestinationMalformed,
		SchemaVersion:   version,
		Accepted:        false,
		RejectionReason: &reason,
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func scrubComponents(components []tracetypes.Component) []tracetypes.Component {
	out := make([]tracetypes.Component, len(components))
	for i, c := range components {
		scrubbed, _ := pii.Scrub(c.Data)
		data, _ := scrubbed.(map[string]any)
		out[i] = tracetypes.Component{EventType: c.EventType, Data: data}
	}
	return out
}

func newBatchID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "batch-" + hex.EncodeToString(b), nil
}
