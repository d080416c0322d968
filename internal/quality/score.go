package quality

// Score reduces issues to a 0-100 quality score. Each issue costs
// affectedRecords/totalCells*100 scaled by its severity weight. A dataset with
// no cells scores 100. The result is not rounded.
func Score(totalRows, totalColumns int, issues []Issue) float64 {
	cells := float64(totalRows) * float64(totalColumns)
	if cells <= 0 {
		return 100
	}
	penalty := 0.0
	for _, is := range issues {
		penalty += float64(is.AffectedRecords) / cells * 100 * is.Severity.Weight()
	}
	score := 100 - penalty
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
