package dto

// BatchRunResult summarizes one run of a batch job. Failed items are logged
// and skipped; a batch run never aborts on a single bad item.
type BatchRunResult struct {
	Processed int  `json:"processed"`
	Succeeded int  `json:"succeeded"`
	Skipped   int  `json:"skipped"`
	Failed    int  `json:"failed"`
	DryRun    bool `json:"dryRun"`
}
