// Package objectdb is the SQLite-backed model database: recognized object
// models, their precomputed grasps, and stored scans.
package objectdb

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	_ "modernc.org/sqlite"

	"github.com/biotinker/graspbase/graspplan"
	"go.viam.com/rdk/spatialmath"
)

//go:embed schema.sql
var schemaSQL string

// ErrModelNotFound is returned when a scaled model id matches no row, or
// matches more than one.
var ErrModelNotFound = errors.New("scaled model not found")

// ErrMeshNotFound is returned when a scaled model has no stored mesh.
var ErrMeshNotFound = errors.New("no mesh stored for scaled model")

// DB wraps the model database connection.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the model database at path and applies the
// schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open model database %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply model database schema: %w", err)
	}
	return &DB{db}, nil
}

// Description is the human-readable metadata of one scaled model.
type Description struct {
	Name  string
	Maker string
	Tags  string
}

// Mesh is the triangulated surface of one scaled model, in the object
// model frame.
type Mesh struct {
	Vertices  []r3.Vector
	Triangles [][3]int
}

// Scan is one stored scan of a model with its ground-truth pose.
type Scan struct {
	ScaledModelID   int64
	Source          string
	FrameID         string
	CloudTopic      string
	BagfileLocation string
	Pose            spatialmath.Pose
}

// ClusterRepGrasps returns the cluster-representative grasps stored for a
// (model, hand) pair, in insertion order.
func (db *DB) ClusterRepGrasps(ctx context.Context, modelID int64, handName string) ([]graspplan.GraspRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT grasp_id, quality, scaled_quality,
		       pre_grasp_posture, final_grasp_posture, frame_id,
		       px, py, pz, qw, qx, qy, qz,
		       gripper_opening, table_clearance
		FROM grasp
		WHERE scaled_model_id = ? AND hand_name = ? AND cluster_rep = 1
		ORDER BY grasp_id`,
		modelID, handName)
	if err != nil {
		return nil, fmt.Errorf("query grasps for model %d hand %q: %w", modelID, handName, err)
	}
	defer rows.Close()

	var records []graspplan.GraspRecord
	for rows.Next() {
		var (
			rec              graspplan.GraspRecord
			preJSON, finJSON string
			px, py, pz       float64
			qw, qx, qy, qz   float64
		)
		if err := rows.Scan(&rec.ID, &rec.Quality, &rec.ScaledQuality,
			&preJSON, &finJSON, &rec.FrameID,
			&px, &py, &pz, &qw, &qx, &qy, &qz,
			&rec.GripperOpening, &rec.TableClearance); err != nil {
			return nil, fmt.Errorf("scan grasp row: %w", err)
		}
		if err := json.Unmarshal([]byte(preJSON), &rec.PreGraspAngles); err != nil {
			return nil, fmt.Errorf("grasp %d pre-grasp posture: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(finJSON), &rec.GraspAngles); err != nil {
			return nil, fmt.Errorf("grasp %d final posture: %w", rec.ID, err)
		}
		rec.Pose = poseFromColumns(px, py, pz, qw, qx, qy, qz)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grasp rows: %w", err)
	}
	return records, nil
}

// ScaledModelList returns scaled model ids, restricted to a model set when
// one is given.
func (db *DB) ScaledModelList(ctx context.Context, modelSet string) ([]int64, error) {
	query := `SELECT scaled_model_id FROM scaled_model ORDER BY scaled_model_id`
	args := []interface{}{}
	if modelSet != "" {
		query = `SELECT scaled_model_id FROM scaled_model WHERE model_set = ? ORDER BY scaled_model_id`
		args = append(args, modelSet)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scaled models: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan model id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ModelDescription returns name, maker, and tags for exactly one scaled
// model id.
func (db *DB) ModelDescription(ctx context.Context, modelID int64) (Description, error) {
	var d Description
	err := db.QueryRowContext(ctx,
		`SELECT model_name, maker, tags FROM scaled_model WHERE scaled_model_id = ?`,
		modelID).Scan(&d.Name, &d.Maker, &d.Tags)
	if errors.Is(err, sql.ErrNoRows) {
		return Description{}, fmt.Errorf("%w: id %d", ErrModelNotFound, modelID)
	}
	if err != nil {
		return Description{}, fmt.Errorf("query model %d description: %w", modelID, err)
	}
	return d, nil
}

// ModelMesh returns the stored mesh of one scaled model.
func (db *DB) ModelMesh(ctx context.Context, modelID int64) (Mesh, error) {
	var vertsJSON, trisJSON string
	err := db.QueryRowContext(ctx,
		`SELECT vertices, triangles FROM model_mesh WHERE scaled_model_id = ?`,
		modelID).Scan(&vertsJSON, &trisJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Mesh{}, fmt.Errorf("%w: id %d", ErrMeshNotFound, modelID)
	}
	if err != nil {
		return Mesh{}, fmt.Errorf("query model %d mesh: %w", modelID, err)
	}

	var verts [][3]float64
	if err := json.Unmarshal([]byte(vertsJSON), &verts); err != nil {
		return Mesh{}, fmt.Errorf("model %d mesh vertices: %w", modelID, err)
	}
	var mesh Mesh
	mesh.Vertices = make([]r3.Vector, len(verts))
	for i, v := range verts {
		mesh.Vertices[i] = r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	}
	if err := json.Unmarshal([]byte(trisJSON), &mesh.Triangles); err != nil {
		return Mesh{}, fmt.Errorf("model %d mesh triangles: %w", modelID, err)
	}
	return mesh, nil
}

// InsertMesh stores the mesh of a scaled model. Used for seeding fixture
// databases.
func (db *DB) InsertMesh(ctx context.Context, modelID int64, mesh Mesh) error {
	verts := make([][3]float64, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = [3]float64{v.X, v.Y, v.Z}
	}
	vertsJSON, err := json.Marshal(verts)
	if err != nil {
		return fmt.Errorf("marshal mesh vertices: %w", err)
	}
	trisJSON, err := json.Marshal(mesh.Triangles)
	if err != nil {
		return fmt.Errorf("marshal mesh triangles: %w", err)
	}
	if _, err := db.ExecContext(ctx, `
		INSERT INTO model_mesh (scaled_model_id, vertices, triangles)
		VALUES (?, ?, ?)`,
		modelID, string(vertsJSON), string(trisJSON)); err != nil {
		return fmt.Errorf("insert mesh for model %d: %w", modelID, err)
	}
	return nil
}

// ModelScans returns the stored scans matching a model id and scan source.
func (db *DB) ModelScans(ctx context.Context, modelID int64, source string) ([]Scan, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT scaled_model_id, scan_source, frame_id, cloud_topic, bagfile_location,
		       px, py, pz, qw, qx, qy, qz
		FROM model_scan
		WHERE scaled_model_id = ? AND scan_source = ?
		ORDER BY scan_id`,
		modelID, source)
	if err != nil {
		return nil, fmt.Errorf("query scans for model %d source %q: %w", modelID, source, err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var (
			s              Scan
			px, py, pz     float64
			qw, qx, qy, qz float64
		)
		if err := rows.Scan(&s.ScaledModelID, &s.Source, &s.FrameID, &s.CloudTopic,
			&s.BagfileLocation, &px, &py, &pz, &qw, &qx, &qy, &qz); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		s.Pose = poseFromColumns(px, py, pz, qw, qx, qy, qz)
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// SaveScan inserts a scan record and returns its id.
func (db *DB) SaveScan(ctx context.Context, s Scan) (int64, error) {
	pt := s.Pose.Point()
	q := s.Pose.Orientation().Quaternion()
	res, err := db.ExecContext(ctx, `
		INSERT INTO model_scan (scaled_model_id, scan_source, frame_id, cloud_topic,
		                        bagfile_location, px, py, pz, qw, qx, qy, qz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ScaledModelID, s.Source, s.FrameID, s.CloudTopic, s.BagfileLocation,
		pt.X, pt.Y, pt.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
	if err != nil {
		return 0, fmt.Errorf("insert scan for model %d: %w", s.ScaledModelID, err)
	}
	return res.LastInsertId()
}

// InsertModel inserts a scaled model row. Used for seeding fixture
// databases.
func (db *DB) InsertModel(ctx context.Context, id int64, name, maker, tags, modelSet string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO scaled_model (scaled_model_id, model_name, maker, tags, model_set)
		VALUES (?, ?, ?, ?, ?)`,
		id, name, maker, tags, modelSet)
	if err != nil {
		return fmt.Errorf("insert model %d: %w", id, err)
	}
	return nil
}

// InsertGrasp inserts a grasp row for a (model, hand) pair and returns
// its id. Used for seeding fixture databases.
func (db *DB) InsertGrasp(ctx context.Context, modelID int64, handName string, rec graspplan.GraspRecord, clusterRep bool) (int64, error) {
	preJSON, err := json.Marshal(rec.PreGraspAngles)
	if err != nil {
		return 0, fmt.Errorf("marshal pre-grasp posture: %w", err)
	}
	finJSON, err := json.Marshal(rec.GraspAngles)
	if err != nil {
		return 0, fmt.Errorf("marshal final posture: %w", err)
	}
	pt := rec.Pose.Point()
	q := rec.Pose.Orientation().Quaternion()
	res, err := db.ExecContext(ctx, `
		INSERT INTO grasp (scaled_model_id, hand_name, cluster_rep, quality, scaled_quality,
		                   pre_grasp_posture, final_grasp_posture, frame_id,
		                   px, py, pz, qw, qx, qy, qz, gripper_opening, table_clearance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		modelID, handName, clusterRep, rec.Quality, rec.ScaledQuality,
		string(preJSON), string(finJSON), rec.FrameID,
		pt.X, pt.Y, pt.Z, q.Real, q.Imag, q.Jmag, q.Kmag,
		rec.GripperOpening, rec.TableClearance)
	if err != nil {
		return 0, fmt.Errorf("insert grasp for model %d: %w", modelID, err)
	}
	return res.LastInsertId()
}

func poseFromColumns(px, py, pz, qw, qx, qy, qz float64) spatialmath.Pose {
	return spatialmath.NewPose(
		r3.Vector{X: px, Y: py, Z: pz},
		&spatialmath.Quaternion{Real: qw, Imag: qx, Jmag: qy, Kmag: qz},
	)
}
