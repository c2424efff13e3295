package graspplan

import (
	"context"
	"sync/atomic"

	"go.viam.com/rdk/logging"
)

// Planner runs the retrieval-pruning-mapping pipeline over database grasp
// records. It holds no per-request state; concurrent Plan calls are
// independent.
type Planner struct {
	cfg        Config
	transforms TransformProvider
	logger     logging.Logger

	prunedTotal atomic.Int64
}

// NewPlanner creates a Planner with the given thresholds and transform
// collaborator.
func NewPlanner(cfg Config, transforms TransformProvider, logger logging.Logger) *Planner {
	return &Planner{
		cfg:        cfg,
		transforms: transforms,
		logger:     logger,
	}
}

// Plan filters the candidate records, maps each survivor to the
// requesting hand's joint convention, and expresses its pose in the
// requested reference frame.
//
// A mapping failure skips that grasp and continues; a frame-resolution
// failure aborts the whole request with no grasps, since the transform
// is shared by every grasp. An empty candidate list is ErrNoCandidates.
func (p *Planner) Plan(ctx context.Context, req Request, records []GraspRecord) ([]MappedGrasp, Stats, error) {
	stats := Stats{Retrieved: len(records)}
	if len(records) == 0 {
		return nil, stats, ErrNoCandidates
	}

	kept := p.pruneGrasps(records, p.cfg.QualityCutoff)
	stats.Pruned = len(records) - len(kept)
	p.logger.Infof("pruned %d of %d grasps above quality cutoff %.1f", stats.Pruned, len(records), p.cfg.QualityCutoff)

	// Every grasp of this request shares the same detection and
	// reference frames, so resolve the transform once up front.
	refTransform, err := resolveReferenceTransform(ctx, p.transforms, req.DetectionFrame, req.ReferenceFrame)
	if err != nil {
		return nil, stats, err
	}

	grasps := make([]MappedGrasp, 0, len(kept))
	for _, rec := range kept {
		pre, grasp, err := MapPostures(rec, req.HandID, req.JointNames)
		if err != nil {
			p.logger.Warnf("skipping grasp %d: %v", rec.ID, err)
			stats.Skipped++
			continue
		}

		grasps = append(grasps, MappedGrasp{
			PreGraspPosture:         pre,
			GraspPosture:            grasp,
			Pose:                    graspPoseInFrame(req.DetectionPose, rec.Pose, refTransform),
			SuccessProbability:      rec.ScaledQuality,
			DesiredApproachDistance: p.cfg.DesiredApproachDistance,
			MinApproachDistance:     p.cfg.MinApproachDistance,
		})
		stats.Mapped++
	}

	p.logger.Infof("returning %d grasps (%d skipped)", stats.Mapped, stats.Skipped)
	return grasps, stats, nil
}
