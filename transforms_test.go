package graspbase

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

func TestStaticTransforms(t *testing.T) {
	want := spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	st := StaticTransforms{
		{Target: "base_link", Source: "camera"}: want,
	}

	got, err := st.LookupTransform(context.Background(), "base_link", "camera")
	if err != nil {
		t.Fatalf("LookupTransform failed: %v", err)
	}
	if !spatialmath.PoseAlmostEqualEps(got, want, 1e-9) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Direction matters: the reverse pair is not tabled.
	if _, err := st.LookupTransform(context.Background(), "camera", "base_link"); err == nil {
		t.Error("expected error for untabled frame pair")
	}
}
