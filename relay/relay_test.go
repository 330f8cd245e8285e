package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/resolvr-net/frostsigner/log"
)

func TestLoggingRelayPublishNeverErrors(t *testing.T) {
	r := NewLoggingRelay(log.Default())
	err := r.Publish(context.Background(), Artifact{Digest: [32]byte{1}, GroupKey: [32]byte{2}, Signature: [64]byte{3}})
	if err != nil {
		t.Fatalf("LoggingRelay.Publish returned an error: %v", err)
	}
}

func TestErrPublishFailedUnwraps(t *testing.T) {
	cause := errors.New("relay unreachable")
	err := &ErrPublishFailed{Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatal("ErrPublishFailed does not unwrap to its cause")
	}
}
