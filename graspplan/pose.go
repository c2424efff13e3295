package graspplan

import (
	"context"
	"fmt"

	"go.viam.com/rdk/spatialmath"
)

// composePose applies b in the frame established by a. Rigid-transform
// composition is not commutative.
func composePose(a, b spatialmath.Pose) spatialmath.Pose {
	return spatialmath.Compose(a, b)
}

// resolveReferenceTransform returns the transform to apply on top of the
// detection frame to reach the reference frame, or nil when the frames
// already coincide and no lookup is needed. The lookup asks for the
// latest available transform and is performed once per planning request,
// since every grasp of a request shares the same pair of frames.
func resolveReferenceTransform(ctx context.Context, tp TransformProvider, detectionFrame, referenceFrame string) (spatialmath.Pose, error) {
	if detectionFrame == referenceFrame {
		return nil, nil
	}
	transform, err := tp.LookupTransform(ctx, referenceFrame, detectionFrame)
	if err != nil {
		return nil, fmt.Errorf("%w: from %q to %q: %v", ErrFrameResolution, detectionFrame, referenceFrame, err)
	}
	return transform, nil
}

// graspPoseInFrame chains a stored grasp pose (object model frame)
// through the detection pose and, when set, the pre-resolved
// detection-to-reference transform.
func graspPoseInFrame(detectionPose, graspPose, refTransform spatialmath.Pose) spatialmath.Pose {
	pose := composePose(detectionPose, graspPose)
	if refTransform != nil {
		pose = composePose(refTransform, pose)
	}
	return pose
}
