package graspplan

// Config holds the pruning thresholds and fixed grasp parameters for the
// planning pipeline.
type Config struct {
	// QualityCutoff prunes every grasp whose raw quality is at or above
	// this value. Database qualities are energies, so more negative is
	// better and the cutoff is an upper bound.
	QualityCutoff float64

	// PruneGripperOpening and PruneTableClearance are accepted for
	// compatibility with the stored grasp schema but are not applied:
	// table clearance is stored in mm while the threshold is in meters,
	// so the check stays disabled until the data is fixed.
	PruneGripperOpening float64
	PruneTableClearance float64

	// DesiredApproachDistance and MinApproachDistance are the same for
	// all grasps; they are not stored in the database.
	DesiredApproachDistance float64
	MinApproachDistance     float64
}

// DefaultConfig returns the thresholds used in production.
func DefaultConfig() Config {
	return Config{
		QualityCutoff:           -40,
		PruneGripperOpening:     0.5,
		PruneTableClearance:     0.0,
		DesiredApproachDistance: 0.15,
		MinApproachDistance:     0.07,
	}
}
