package progrock_test

import (
	"context"
	"testing"

	"github.com/PerAsperaMods/modkit/adapters/telemetry/progrock"
	"github.com/PerAsperaMods/modkit/core/ports"
)

func TestRecorder_Integration(t *testing.T) {
	// 1. Initialize the Recorder
	recorder := progrock.New()

	// 2. Record a vertex for a type resolution
	ctx := context.Background()
	recCtx, vertex := recorder.Record(ctx, "resolve Planet", ports.WithInternal())

	// 3. The vertex must be reachable through the returned context
	if got, ok := ports.VertexFromContext(recCtx); !ok || got != vertex {
		t.Error("expected the recorded vertex to be attached to the returned context")
	}

	// 4. Write to Stdout
	if _, err := vertex.Stdout().Write([]byte("scanning module index\n")); err != nil {
		t.Errorf("failed to write to stdout: %v", err)
	}

	// 5. Complete the vertex
	vertex.Complete(nil)

	// 6. Close the recorder
	if c, ok := recorder.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			t.Errorf("failed to close recorder: %v", err)
		}
	}
}
