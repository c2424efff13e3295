package graspplan

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"
)

func gripperRequest(referenceFrame string) Request {
	return Request{
		HandID:         "WILLOW_GRIPPER_2010",
		JointNames:     gripperJoints,
		DetectionPose:  spatialmath.NewPoseFromPoint(r3.Vector{X: 500, Y: 0, Z: 200}),
		DetectionFrame: "camera",
		ReferenceFrame: referenceFrame,
	}
}

func gripperRecord(id int64, quality, scaledQuality float64) GraspRecord {
	return GraspRecord{
		ID:             id,
		Quality:        quality,
		ScaledQuality:  scaledQuality,
		PreGraspAngles: []float64{0.548},
		GraspAngles:    []float64{0.1},
		Pose:           spatialmath.NewPoseFromPoint(r3.Vector{X: 10, Y: 0, Z: 0}),
		FrameID:        "object_model",
	}
}

func TestPlan_EndToEnd(t *testing.T) {
	p := NewPlanner(DefaultConfig(), &fakeTransforms{}, logging.NewTestLogger(t))

	// Two records at or above the -40 cutoff are pruned; one survives.
	records := []GraspRecord{
		gripperRecord(1, -40, 0.2),
		gripperRecord(2, -12, 0.4),
		gripperRecord(3, -55, 0.83),
	}

	grasps, stats, err := p.Plan(context.Background(), gripperRequest("camera"), records)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(grasps) != 1 {
		t.Fatalf("expected 1 grasp, got %d", len(grasps))
	}
	if stats.Retrieved != 3 || stats.Pruned != 2 || stats.Mapped != 1 || stats.Skipped != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	g := grasps[0]
	if g.SuccessProbability != 0.83 {
		t.Errorf("success probability: got %v, want 0.83", g.SuccessProbability)
	}
	floatsAlmostEqual(t, g.PreGraspPosture.Positions, []float64{0.548, 0.548, 0.548, 0.548}, "pre-grasp")
	floatsAlmostEqual(t, g.GraspPosture.Positions, []float64{0.1, 0.1, 0.1, 0.1}, "grasp")
	if g.DesiredApproachDistance != 0.15 || g.MinApproachDistance != 0.07 {
		t.Errorf("approach distances: got %v/%v, want 0.15/0.07", g.DesiredApproachDistance, g.MinApproachDistance)
	}

	// Detection frame == reference frame: pose is detection*grasp.
	wantPose := composePose(gripperRequest("camera").DetectionPose, records[2].Pose)
	if !spatialmath.PoseAlmostEqualEps(g.Pose, wantPose, 1e-9) {
		t.Errorf("grasp pose: got %v, want %v", g.Pose, wantPose)
	}
}

func TestPlan_NoCandidates(t *testing.T) {
	p := NewPlanner(DefaultConfig(), &fakeTransforms{}, logging.NewTestLogger(t))
	_, _, err := p.Plan(context.Background(), gripperRequest("camera"), nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

func TestPlan_FrameResolutionFailureAbortsRequest(t *testing.T) {
	tp := &fakeTransforms{err: errors.New("no transform available")}
	p := NewPlanner(DefaultConfig(), tp, logging.NewTestLogger(t))

	grasps, _, err := p.Plan(context.Background(), gripperRequest("base_link"), []GraspRecord{
		gripperRecord(1, -55, 0.8),
		gripperRecord(2, -60, 0.9),
	})
	if !errors.Is(err, ErrFrameResolution) {
		t.Fatalf("expected ErrFrameResolution, got %v", err)
	}
	if len(grasps) != 0 {
		t.Errorf("expected zero grasps on frame failure, got %d", len(grasps))
	}
	if tp.calls != 1 {
		t.Errorf("expected a single lookup for the whole request, got %d", tp.calls)
	}
}

func TestPlan_SharedTransformLookedUpOnce(t *testing.T) {
	tp := &fakeTransforms{pose: testPoseC()}
	p := NewPlanner(DefaultConfig(), tp, logging.NewTestLogger(t))

	req := gripperRequest("base_link")
	grasps, _, err := p.Plan(context.Background(), req, []GraspRecord{
		gripperRecord(1, -55, 0.8),
		gripperRecord(2, -60, 0.9),
		gripperRecord(3, -70, 0.95),
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(grasps) != 3 {
		t.Fatalf("expected 3 grasps, got %d", len(grasps))
	}
	if tp.calls != 1 {
		t.Errorf("expected one lookup shared by all grasps, got %d", tp.calls)
	}

	for i, g := range grasps {
		want := composePose(tp.pose, composePose(req.DetectionPose, gripperRecord(0, 0, 0).Pose))
		if !spatialmath.PoseAlmostEqualEps(g.Pose, want, 1e-9) {
			t.Errorf("grasp %d pose not chained through reference transform", i)
		}
	}
}

func TestPlan_MappingFailureSkipsGrasp(t *testing.T) {
	p := NewPlanner(DefaultConfig(), &fakeTransforms{}, logging.NewTestLogger(t))

	bad := gripperRecord(1, -55, 0.8)
	bad.PreGraspAngles = []float64{0.5, 0.5} // wrong encoding for the gripper
	bad.GraspAngles = []float64{0.1, 0.1}
	good := gripperRecord(2, -60, 0.9)

	grasps, stats, err := p.Plan(context.Background(), gripperRequest("camera"), []GraspRecord{bad, good})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(grasps) != 1 {
		t.Fatalf("expected 1 grasp after skipping the bad record, got %d", len(grasps))
	}
	if stats.Skipped != 1 || stats.Mapped != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if grasps[0].SuccessProbability != 0.9 {
		t.Errorf("surviving grasp should be record 2, got probability %v", grasps[0].SuccessProbability)
	}
}

func TestPlan_AllMappingsFailReturnsEmptyList(t *testing.T) {
	p := NewPlanner(DefaultConfig(), &fakeTransforms{}, logging.NewTestLogger(t))

	bad := gripperRecord(1, -55, 0.8)
	bad.PreGraspAngles = []float64{0.5, 0.5}
	bad.GraspAngles = []float64{0.1, 0.1}

	grasps, stats, err := p.Plan(context.Background(), gripperRequest("camera"), []GraspRecord{bad})
	if err != nil {
		t.Fatalf("mapping failures are per-grasp, not request failures: %v", err)
	}
	if len(grasps) != 0 {
		t.Errorf("expected empty list, got %d grasps", len(grasps))
	}
	if stats.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", stats.Skipped)
	}
}
