// Package relay declares the outbound contract this module uses to hand a
// finished signature off to whatever actually publishes Nostr events.
// Publishing to real relays lives outside this core's scope (spec §1); the
// only thing defined here is "how a finished signature leaves this
// module", kept deliberately thin since no Nostr relay client exists
// anywhere in the retrieval pack to ground a heavier implementation on.
package relay

import (
	"context"
	"fmt"

	"github.com/resolvr-net/frostsigner/log"
)

// Artifact is the payload a Publisher hands off: a signed message ready to
// leave the process. It is defined here rather than imported from signer
// to keep this package import-free of the signing core.
type Artifact struct {
	Digest    [32]byte
	GroupKey  [32]byte
	Signature [64]byte
}

// ErrPublishFailed wraps a publish failure. Per spec §7, publish failures
// are logged and otherwise non-fatal: the signature itself is already
// final and durable once aggregation succeeds.
type ErrPublishFailed struct {
	Cause error
}

func (e *ErrPublishFailed) Error() string {
	return fmt.Sprintf("publish failed: %v", e.Cause)
}

func (e *ErrPublishFailed) Unwrap() error { return e.Cause }

// Publisher is the outbound relay contract: best-effort delivery of a
// finished signature.
type Publisher interface {
	Publish(ctx context.Context, artifact Artifact) error
}

// LoggingRelay is a Publisher that only logs; it stands in for whatever
// federation-runtime-specific Nostr relay client eventually implements
// Publisher, and is what this core's own tests use.
type LoggingRelay struct {
	Logger log.Logger
}

// NewLoggingRelay constructs a LoggingRelay.
func NewLoggingRelay(logger log.Logger) *LoggingRelay {
	return &LoggingRelay{Logger: logger}
}

func (r *LoggingRelay) Publish(_ context.Context, artifact Artifact) error {
	r.Logger.Info("msg", "publishing signed artifact", "digest", fmt.Sprintf("%x", artifact.Digest))
	return nil
}
