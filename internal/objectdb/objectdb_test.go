package objectdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/biotinker/graspbase/graspplan"
	"go.viam.com/rdk/spatialmath"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestClusterRepGrasps_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.InsertModel(ctx, 18744, "mug", "ikea", "kitchen", "REDUCED_MODEL_SET"))

	rec := graspplan.GraspRecord{
		Quality:        -52.3,
		ScaledQuality:  0.74,
		PreGraspAngles: []float64{0.548},
		GraspAngles:    []float64{0.1},
		Pose: spatialmath.NewPose(
			r3.Vector{X: 0.02, Y: -0.01, Z: 0.11},
			&spatialmath.Quaternion{Real: 0.92, Imag: 0.1, Jmag: 0.2, Kmag: 0.3},
		),
		FrameID:        "object_model",
		GripperOpening: 0.41,
		TableClearance: 12.5,
	}
	_, err := db.InsertGrasp(ctx, 18744, "WILLOW_GRIPPER_2010", rec, true)
	require.NoError(t, err)

	// A non-representative grasp and a different hand must not show up.
	_, err = db.InsertGrasp(ctx, 18744, "WILLOW_GRIPPER_2010", rec, false)
	require.NoError(t, err)
	_, err = db.InsertGrasp(ctx, 18744, "Schunk", rec, true)
	require.NoError(t, err)

	got, err := db.ClusterRepGrasps(ctx, 18744, "WILLOW_GRIPPER_2010")
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.Equal(t, rec.Quality, got[0].Quality)
	require.Equal(t, rec.ScaledQuality, got[0].ScaledQuality)
	require.Equal(t, rec.PreGraspAngles, got[0].PreGraspAngles)
	require.Equal(t, rec.GraspAngles, got[0].GraspAngles)
	require.Equal(t, rec.FrameID, got[0].FrameID)
	require.Equal(t, rec.GripperOpening, got[0].GripperOpening)
	require.Equal(t, rec.TableClearance, got[0].TableClearance)
	require.True(t, spatialmath.PoseAlmostEqualEps(rec.Pose, got[0].Pose, 1e-9))
}

func TestClusterRepGrasps_Empty(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	got, err := db.ClusterRepGrasps(ctx, 999, "Schunk")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestScaledModelList_BySet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.InsertModel(ctx, 1, "mug", "", "", "SET_A"))
	require.NoError(t, db.InsertModel(ctx, 2, "bowl", "", "", "SET_B"))
	require.NoError(t, db.InsertModel(ctx, 3, "can", "", "", "SET_A"))

	all, err := db.ScaledModelList(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, all)

	setA, err := db.ScaledModelList(ctx, "SET_A")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3}, setA)
}

func TestModelDescription(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.InsertModel(ctx, 42, "soup can", "campbells", "canned,food", ""))

	d, err := db.ModelDescription(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, Description{Name: "soup can", Maker: "campbells", Tags: "canned,food"}, d)

	_, err = db.ModelDescription(ctx, 43)
	require.ErrorIs(t, err, ErrModelNotFound)
}

func TestModelMesh_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.InsertModel(ctx, 11, "box", "", "", ""))

	// A unit tetrahedron is enough to exercise the round trip.
	mesh := Mesh{
		Vertices: []r3.Vector{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},
	}
	require.NoError(t, db.InsertMesh(ctx, 11, mesh))

	got, err := db.ModelMesh(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, mesh.Vertices, got.Vertices)
	require.Equal(t, mesh.Triangles, got.Triangles)
}

func TestModelMesh_NotFound(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.InsertModel(ctx, 12, "cup", "", "", ""))

	_, err := db.ModelMesh(ctx, 12)
	require.ErrorIs(t, err, ErrMeshNotFound)
}

func TestSaveScanAndModelScans(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.InsertModel(ctx, 7, "bottle", "", "", ""))

	scan := Scan{
		ScaledModelID:   7,
		Source:          "simulated",
		FrameID:         "table",
		CloudTopic:      "/points",
		BagfileLocation: "/data/scans/bottle_01.bag",
		Pose:            spatialmath.NewPoseFromPoint(r3.Vector{X: 0.5, Y: 0.2, Z: 0}),
	}
	id, err := db.SaveScan(ctx, scan)
	require.NoError(t, err)
	require.Positive(t, id)

	scans, err := db.ModelScans(ctx, 7, "simulated")
	require.NoError(t, err)
	require.Len(t, scans, 1)
	require.Equal(t, scan.BagfileLocation, scans[0].BagfileLocation)
	require.True(t, spatialmath.PoseAlmostEqualEps(scan.Pose, scans[0].Pose, 1e-9))

	// Different source filters out.
	scans, err = db.ModelScans(ctx, 7, "real")
	require.NoError(t, err)
	require.Empty(t, scans)
}
