package graspplan

import (
	"context"

	"go.viam.com/rdk/spatialmath"
)

// GraspRecord is one candidate grasp as stored in the model database.
// Records are read-only to the planner; every mapping step constructs
// fresh output structures.
type GraspRecord struct {
	ID int64

	// Quality is the raw grasp energy. More negative is better.
	Quality float64

	// ScaledQuality is the quality normalized to [0,1]; it is copied
	// into the output grasp as its success probability.
	ScaledQuality float64

	// PreGraspAngles and GraspAngles are the database's generic
	// joint-angle encodings for the pre-grasp and final postures.
	// They must have equal length for a valid record.
	PreGraspAngles []float64
	GraspAngles    []float64

	// Pose is the final grasp pose in the object model frame.
	Pose    spatialmath.Pose
	FrameID string

	// GripperOpening and TableClearance are stored per grasp but not
	// currently used for pruning (see Config).
	GripperOpening float64
	TableClearance float64
}

// Posture is a named-joint configuration of a hand.
type Posture struct {
	JointNames []string
	Positions  []float64
	Efforts    []float64
}

// MappedGrasp is one planned grasp expressed in the hand's joint
// convention and the caller's reference frame.
type MappedGrasp struct {
	PreGraspPosture Posture
	GraspPosture    Posture

	// Pose is the grasp pose in the requested reference frame.
	Pose spatialmath.Pose

	SuccessProbability float64

	DesiredApproachDistance float64
	MinApproachDistance     float64
}

// Request describes one grasp-planning invocation.
type Request struct {
	// HandID is the database hand identifier, selecting the posture
	// mapping family.
	HandID string

	// JointNames is the requesting hand's controllable joints, in
	// canonical order.
	JointNames []string

	// DetectionPose is the recognized object's pose (model frame to
	// detection frame), expressed in DetectionFrame.
	DetectionPose  spatialmath.Pose
	DetectionFrame string

	// ReferenceFrame is the frame the caller wants grasp poses in.
	ReferenceFrame string
}

// Stats counts what happened to the candidates of one request.
type Stats struct {
	Retrieved int
	Pruned    int
	Mapped    int
	Skipped   int
}

// TransformProvider resolves the latest available rigid transform from
// sourceFrame to targetFrame. It is consulted at most once per planning
// request.
type TransformProvider interface {
	LookupTransform(ctx context.Context, targetFrame, sourceFrame string) (spatialmath.Pose, error)
}
