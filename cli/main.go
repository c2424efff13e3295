package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/biotinker/graspbase"
	"github.com/biotinker/graspbase/internal/objectdb"

	"go.viam.com/rdk/logging"
)

const validOps = "models, describe, mesh, scans"

func main() {
	dbPath := flag.String("db", "", "path to the object model database")
	op := flag.String("op", "", "operation to run: "+validOps)
	modelSet := flag.String("set", "", "model set filter for the models op (optional)")
	modelID := flag.Int64("model", 0, "scaled model id for describe/scans")
	scanSource := flag.String("source", "", "scan source for the scans op")
	flag.Parse()

	logger := logging.NewLogger("graspbase-cli")

	if *dbPath == "" {
		logger.Fatal("-db flag is required")
	}
	if *op == "" {
		logger.Fatal("-op flag is required; valid ops: " + validOps)
	}

	db, err := objectdb.Open(*dbPath)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	// No machine connection: the CLI only inspects the database, so the
	// planner's transform provider is never consulted.
	node := graspbase.NewNode(db, nil, graspbase.StaticTransforms{}, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *op {
	case "models":
		if err := runModels(ctx, node, logger, *modelSet); err != nil {
			logger.Fatal(err)
		}
	case "describe":
		if *modelID == 0 {
			logger.Fatal("-model flag is required for describe")
		}
		if err := runDescribe(ctx, node, logger, *modelID); err != nil {
			logger.Fatal(err)
		}
	case "mesh":
		if *modelID == 0 {
			logger.Fatal("-model flag is required for mesh")
		}
		if err := runMesh(ctx, node, logger, *modelID); err != nil {
			logger.Fatal(err)
		}
	case "scans":
		if *modelID == 0 || *scanSource == "" {
			logger.Fatal("-model and -source flags are required for scans")
		}
		if err := runScans(ctx, node, logger, *modelID, *scanSource); err != nil {
			logger.Fatal(err)
		}
	default:
		logger.Fatalf("unknown op %q; valid ops: %s", *op, validOps)
	}
}

func runModels(ctx context.Context, node *graspbase.Node, logger logging.Logger, modelSet string) error {
	ids, err := node.ModelList(ctx, modelSet)
	if err != nil {
		return fmt.Errorf("model list: %w", err)
	}
	logger.Infof("%d models", len(ids))
	for _, id := range ids {
		logger.Infof("  %d", id)
	}
	return nil
}

func runDescribe(ctx context.Context, node *graspbase.Node, logger logging.Logger, modelID int64) error {
	d, err := node.ModelDescription(ctx, modelID)
	if err != nil {
		return fmt.Errorf("describe model %d: %w", modelID, err)
	}
	logger.Infof("model %d: name=%q maker=%q tags=%q", modelID, d.Name, d.Maker, d.Tags)
	return nil
}

func runMesh(ctx context.Context, node *graspbase.Node, logger logging.Logger, modelID int64) error {
	mesh, err := node.ModelMesh(ctx, modelID)
	if err != nil {
		return fmt.Errorf("mesh for model %d: %w", modelID, err)
	}
	logger.Infof("model %d mesh: %d vertices, %d triangles", modelID, len(mesh.Vertices), len(mesh.Triangles))
	return nil
}

func runScans(ctx context.Context, node *graspbase.Node, logger logging.Logger, modelID int64, source string) error {
	scans, err := node.ModelScans(ctx, modelID, source)
	if err != nil {
		return fmt.Errorf("scans for model %d: %w", modelID, err)
	}
	logger.Infof("%d scans for model %d from %q", len(scans), modelID, source)
	for _, s := range scans {
		pt := s.Pose.Point()
		logger.Infof("  %s in %s at (%.3f, %.3f, %.3f), topic %s",
			s.BagfileLocation, s.FrameID, pt.X, pt.Y, pt.Z, s.CloudTopic)
	}
	return nil
}
