package graspplan

// pruneGrasps returns the records whose quality is strictly below the
// cutoff, preserving order. Records at or above the cutoff are discarded:
// quality is an energy, so anything >= cutoff is too weak a grasp to keep.
//
// Gripper-opening and table-clearance pruning is intentionally not done
// here; see Config.
func (p *Planner) pruneGrasps(records []GraspRecord, cutoff float64) []GraspRecord {
	kept := make([]GraspRecord, 0, len(records))
	pruned := 0
	for _, rec := range records {
		if rec.Quality >= cutoff {
			pruned++
			continue
		}
		kept = append(kept, rec)
	}
	p.prunedTotal.Add(int64(pruned))
	return kept
}

// PrunedTotal reports how many grasps this planner has discarded across
// all requests. Observability only.
func (p *Planner) PrunedTotal() int64 {
	return p.prunedTotal.Load()
}
