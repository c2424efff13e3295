package graspbase

import (
	"context"
	"fmt"

	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/robot"
	"go.viam.com/rdk/spatialmath"
)

// MachineTransforms resolves frame-to-frame transforms through a Viam
// machine's frame system. The machine returns the latest configured
// transform; there is no history to query.
type MachineTransforms struct {
	machine robot.Robot
}

// NewMachineTransforms wraps a connected machine as a transform provider.
func NewMachineTransforms(machine robot.Robot) *MachineTransforms {
	return &MachineTransforms{machine: machine}
}

// LookupTransform returns the pose of sourceFrame's origin expressed in
// targetFrame, which is the rigid transform taking source-frame
// coordinates to target-frame coordinates.
func (m *MachineTransforms) LookupTransform(ctx context.Context, targetFrame, sourceFrame string) (spatialmath.Pose, error) {
	origin := referenceframe.NewPoseInFrame(sourceFrame, spatialmath.NewZeroPose())
	out, err := m.machine.TransformPose(ctx, origin, targetFrame, nil)
	if err != nil {
		return nil, fmt.Errorf("machine transform %q -> %q: %w", sourceFrame, targetFrame, err)
	}
	return out.Pose(), nil
}

// FramePair identifies a directed transform between two named frames.
type FramePair struct {
	Target string
	Source string
}

// StaticTransforms serves transforms from a fixed table. Useful when the
// frame layout is known ahead of time or no machine is available.
type StaticTransforms map[FramePair]spatialmath.Pose

// LookupTransform returns the tabled transform or an error when the pair
// is absent.
func (s StaticTransforms) LookupTransform(ctx context.Context, targetFrame, sourceFrame string) (spatialmath.Pose, error) {
	pose, ok := s[FramePair{Target: targetFrame, Source: sourceFrame}]
	if !ok {
		return nil, fmt.Errorf("no static transform from %q to %q", sourceFrame, targetFrame)
	}
	return pose, nil
}
