package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/geo/r3"

	"github.com/biotinker/graspbase"
	"github.com/biotinker/graspbase/internal/creds"
	"github.com/biotinker/graspbase/internal/objectdb"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/robot/client"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/utils/rpc"
)

// detectionFile is the on-disk form of a recognized object's pose.
type detectionFile struct {
	Frame string  `json:"frame"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Theta float64 `json:"theta"`
	RX    float64 `json:"rx"`
	RY    float64 `json:"ry"`
	RZ    float64 `json:"rz"`
}

func loadDetection(path string) (*referenceframe.PoseInFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading detection file: %w", err)
	}
	var d detectionFile
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing detection file: %w", err)
	}
	pose := spatialmath.NewPose(
		r3.Vector{X: d.X, Y: d.Y, Z: d.Z},
		&spatialmath.R4AA{Theta: d.Theta, RX: d.RX, RY: d.RY, RZ: d.RZ},
	)
	return referenceframe.NewPoseInFrame(d.Frame, pose), nil
}

func main() {
	credsPath := flag.String("creds", "", "path to machine credentials JSON file")
	dbPath := flag.String("db", "", "path to the object model database")
	handsPath := flag.String("hands", "", "path to the hand registry JSON file")
	detectionPath := flag.String("detection", "", "path to the detection pose JSON file")
	modelID := flag.Int64("model", 0, "scaled model id of the recognized object")
	armName := flag.String("arm", "", "arm whose hand the grasps are planned for")
	refFrame := flag.String("frame", "", "reference frame for returned grasp poses")
	flag.Parse()

	logger := logging.NewDebugLogger("graspbase")

	for name, val := range map[string]string{
		"-creds": *credsPath, "-db": *dbPath, "-hands": *handsPath,
		"-detection": *detectionPath, "-arm": *armName, "-frame": *refFrame,
	} {
		if val == "" {
			logger.Fatalf("%s flag is required", name)
		}
	}
	if *modelID == 0 {
		logger.Fatal("-model flag is required")
	}

	machineCreds, err := creds.Load(*credsPath)
	if err != nil {
		logger.Fatal(err)
	}

	db, err := objectdb.Open(*dbPath)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	hands, err := graspbase.LoadHandRegistry(*handsPath)
	if err != nil {
		logger.Fatal(err)
	}

	detection, err := loadDetection(*detectionPath)
	if err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	machine, err := client.New(
		ctx,
		machineCreds.Address,
		logger,
		client.WithDialOptions(rpc.WithEntityCredentials(
			machineCreds.EntityID,
			rpc.Credentials{
				Type:    rpc.CredentialsTypeAPIKey,
				Payload: machineCreds.APIKey,
			})),
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer machine.Close(context.Background())

	logger.Info("Connected to machine")

	node := graspbase.NewNode(db, hands, graspbase.NewMachineTransforms(machine), logger)

	grasps, stats, err := node.PlanGrasps(ctx, graspbase.PlanningRequest{
		ArmName:           *armName,
		CandidateModelIDs: []int64{*modelID},
		Detection:         detection,
		ReferenceFrame:    *refFrame,
	})
	if err != nil {
		logger.Fatal(err)
	}

	logger.Infof("Planned %d grasps (retrieved %d, pruned %d, skipped %d)",
		stats.Mapped, stats.Retrieved, stats.Pruned, stats.Skipped)
	for i, g := range grasps {
		pt := g.Pose.Point()
		logger.Infof("  grasp %d: p=%.2f pos=(%.3f, %.3f, %.3f) in %s",
			i, g.SuccessProbability, pt.X, pt.Y, pt.Z, *refFrame)
	}
}
