package graspplan

import "fmt"

// Fixed efforts per joint. The database does not store efforts, so they
// are hard-coded: squeeze at 50 for the final grasp, hold the pre-grasp
// open at 100.
const (
	graspEffort    = 50.0
	preGraspEffort = 100.0
)

// Database hand identifiers with dedicated mapping families. Anything
// else falls through to the generic positional mapper.
const (
	handSchunk        = "Schunk"
	handWillowGripper = "WILLOW_GRIPPER_2010"
)

// postureMapper converts one database joint-angle vector into positions
// for a hand with the given joint count. Implementations validate both
// lengths before mapping.
type postureMapper interface {
	mapPositions(angles []float64, jointCount int) ([]float64, error)
}

// mapperFor selects the mapping family for a database hand identifier.
func mapperFor(handID string) postureMapper {
	switch handID {
	case handSchunk:
		return schunkHand{}
	case handWillowGripper:
		return willowGripper{}
	default:
		return genericHand{}
	}
}

// MapPostures converts a grasp record's pre-grasp and final joint-angle
// vectors into postures for the named hand. Both postures use the same
// mapping; efforts are the fixed constants above.
func MapPostures(rec GraspRecord, handID string, jointNames []string) (pre, grasp Posture, err error) {
	if len(rec.PreGraspAngles) != len(rec.GraspAngles) {
		return Posture{}, Posture{}, fmt.Errorf(
			"%w: record %d has %d pre-grasp values but %d final values",
			ErrUnsupportedEncoding, rec.ID, len(rec.PreGraspAngles), len(rec.GraspAngles))
	}

	m := mapperFor(handID)

	prePos, err := m.mapPositions(rec.PreGraspAngles, len(jointNames))
	if err != nil {
		return Posture{}, Posture{}, fmt.Errorf("hand %q, record %d: %w", handID, rec.ID, err)
	}
	graspPos, err := m.mapPositions(rec.GraspAngles, len(jointNames))
	if err != nil {
		return Posture{}, Posture{}, fmt.Errorf("hand %q, record %d: %w", handID, rec.ID, err)
	}

	pre = Posture{
		JointNames: jointNames,
		Positions:  prePos,
		Efforts:    uniformEfforts(len(jointNames), preGraspEffort),
	}
	grasp = Posture{
		JointNames: jointNames,
		Positions:  graspPos,
		Efforts:    uniformEfforts(len(jointNames), graspEffort),
	}
	return pre, grasp, nil
}

func uniformEfforts(n int, effort float64) []float64 {
	efforts := make([]float64, n)
	for i := range efforts {
		efforts[i] = effort
	}
	return efforts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// schunkHand maps the 8-value database encoding of the Schunk hand onto
// its 7 controllable joints.
type schunkHand struct{}

// schunkIndex gives, for each hand joint, the database value feeding it.
var schunkIndex = [7]int{0, 6, 7, 1, 2, 3, 4}

const schunkJointLimit = 1.5707

func (schunkHand) mapPositions(angles []float64, jointCount int) ([]float64, error) {
	if jointCount != 7 {
		return nil, fmt.Errorf("%w: Schunk hand has 7 joints, got %d", ErrJointCountMismatch, jointCount)
	}
	if len(angles) != 8 {
		return nil, fmt.Errorf("%w: Schunk database encoding has 8 values, got %d", ErrJointCountMismatch, len(angles))
	}
	positions := make([]float64, 7)
	for i, dbIdx := range schunkIndex {
		lo := -schunkJointLimit
		if i == 0 {
			// The spread joint cannot go negative.
			lo = 0
		}
		positions[i] = clamp(angles[dbIdx], lo, schunkJointLimit)
	}
	return positions, nil
}

// willowGripper maps the single-DOF database encoding of the PR2 gripper
// onto its 4 mimicking joints by replicating the one value. The grasp is
// really one DOF, but the hand description exposes four joints.
type willowGripper struct{}

func (willowGripper) mapPositions(angles []float64, jointCount int) ([]float64, error) {
	if jointCount != 4 || len(angles) != 1 {
		return nil, fmt.Errorf(
			"%w: gripper expects 4 joints and a single database value, got %d joints and %d values",
			ErrJointCountMismatch, jointCount, len(angles))
	}
	positions := make([]float64, 4)
	for i := range positions {
		positions[i] = angles[0]
	}
	return positions, nil
}

// genericHand copies database values positionally, assuming the hand
// description lists joints in the same order the database stores them.
type genericHand struct{}

func (genericHand) mapPositions(angles []float64, jointCount int) ([]float64, error) {
	if jointCount != len(angles) {
		return nil, fmt.Errorf(
			"%w: hand has %d joints but database grasp specifies %d values",
			ErrJointCountMismatch, jointCount, len(angles))
	}
	positions := make([]float64, len(angles))
	copy(positions, angles)
	return positions, nil
}
