// Package graspbase plans grasps for database-recognized objects: it
// retrieves precomputed candidate grasps for a (model, hand) pair, prunes
// low-quality ones, maps them to the requesting hand's joint convention,
// and expresses their poses in the caller's reference frame.
package graspbase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/biotinker/graspbase/graspplan"
	"github.com/biotinker/graspbase/internal/objectdb"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
)

// ErrNoModels is returned when a planning request carries no candidate
// model.
var ErrNoModels = errors.New("no potential model in grasp planning target")

// Node wires the model database, the hand registry, and the transform
// provider into the planning pipeline. It holds no per-request state.
type Node struct {
	logger  logging.Logger
	db      *objectdb.DB
	hands   HandRegistry
	planner *graspplan.Planner
}

// NewNode creates a Node using the production pruning thresholds.
func NewNode(db *objectdb.DB, hands HandRegistry, transforms graspplan.TransformProvider, logger logging.Logger) *Node {
	return &Node{
		logger:  logger,
		db:      db,
		hands:   hands,
		planner: graspplan.NewPlanner(graspplan.DefaultConfig(), transforms, logger),
	}
}

// PlanningRequest is one grasp-planning invocation against the node.
type PlanningRequest struct {
	// ArmName selects the hand via the registry.
	ArmName string

	// CandidateModelIDs are the recognition hypotheses for the target.
	// Only the first is planned for.
	CandidateModelIDs []int64

	// Detection is the recognized object's pose and the frame it was
	// detected in.
	Detection *referenceframe.PoseInFrame

	// ReferenceFrame is the frame grasp poses are returned in.
	ReferenceFrame string
}

// PlanGrasps retrieves, prunes, and maps the stored grasps for the
// request's first candidate model. Per-grasp mapping failures are skipped;
// database and frame-resolution failures fail the request.
func (n *Node) PlanGrasps(ctx context.Context, req PlanningRequest) ([]graspplan.MappedGrasp, graspplan.Stats, error) {
	requestID := uuid.NewString()

	if len(req.CandidateModelIDs) == 0 {
		return nil, graspplan.Stats{}, ErrNoModels
	}
	if len(req.CandidateModelIDs) > 1 {
		n.logger.Warnf("request %s: %d candidate models, planning for the first only",
			requestID, len(req.CandidateModelIDs))
	}
	modelID := req.CandidateModelIDs[0]

	handID, err := n.hands.DatabaseName(req.ArmName)
	if err != nil {
		return nil, graspplan.Stats{}, err
	}
	jointNames, err := n.hands.JointNames(req.ArmName)
	if err != nil {
		return nil, graspplan.Stats{}, err
	}

	records, err := n.db.ClusterRepGrasps(ctx, modelID, handID)
	if err != nil {
		return nil, graspplan.Stats{}, fmt.Errorf("database query for model %d: %w", modelID, err)
	}
	n.logger.Infof("request %s: retrieved %d grasps for model %d hand %q",
		requestID, len(records), modelID, handID)

	grasps, stats, err := n.planner.Plan(ctx, graspplan.Request{
		HandID:         handID,
		JointNames:     jointNames,
		DetectionPose:  req.Detection.Pose(),
		DetectionFrame: req.Detection.Parent(),
		ReferenceFrame: req.ReferenceFrame,
	}, records)
	if err != nil {
		return nil, stats, err
	}

	n.logger.Infof("request %s: %d grasps planned (%d pruned, %d skipped)",
		requestID, stats.Mapped, stats.Pruned, stats.Skipped)
	return grasps, stats, nil
}

// ModelList returns the scaled model ids in the database, restricted to a
// model set when one is given.
func (n *Node) ModelList(ctx context.Context, modelSet string) ([]int64, error) {
	ids, err := n.db.ScaledModelList(ctx, modelSet)
	if err != nil {
		return nil, fmt.Errorf("model list: %w", err)
	}
	return ids, nil
}

// ModelDescription returns name, maker, and tags for one scaled model.
func (n *Node) ModelDescription(ctx context.Context, modelID int64) (objectdb.Description, error) {
	return n.db.ModelDescription(ctx, modelID)
}

// ModelMesh returns the triangulated surface of one scaled model.
func (n *Node) ModelMesh(ctx context.Context, modelID int64) (objectdb.Mesh, error) {
	return n.db.ModelMesh(ctx, modelID)
}

// ModelScans returns stored scans for a model id and scan source.
func (n *Node) ModelScans(ctx context.Context, modelID int64, source string) ([]objectdb.Scan, error) {
	return n.db.ModelScans(ctx, modelID, source)
}

// SaveScan stores a scan record with its ground-truth pose.
func (n *Node) SaveScan(ctx context.Context, scan objectdb.Scan) (int64, error) {
	return n.db.SaveScan(ctx, scan)
}
