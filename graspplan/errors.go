package graspplan

import "errors"

var (
	// ErrNoCandidates is returned when a planning request arrives with an
	// empty grasp list.
	ErrNoCandidates = errors.New("no candidate grasps for model")

	// ErrJointCountMismatch is returned when a hand's joint count does not
	// match the database encoding for a grasp.
	ErrJointCountMismatch = errors.New("joint count does not match database grasp encoding")

	// ErrUnsupportedEncoding is returned when a grasp record's joint-angle
	// encoding is malformed (pre-grasp and final vectors disagree).
	ErrUnsupportedEncoding = errors.New("unsupported grasp joint-angle encoding")

	// ErrFrameResolution is returned when the transform from the detection
	// frame to the requested reference frame cannot be resolved. It fails
	// the whole request: the transform is shared by every grasp.
	ErrFrameResolution = errors.New("failed to resolve reference frame transform")
)
