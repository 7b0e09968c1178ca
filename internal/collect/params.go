// internal/collect/params.go

// Package collect holds the collection-parameter mapping handed to the
// bridge by the collection workflow. Read-only to this repo; one value
// per collection event.
package collect

// Params describes one X-ray data collection.
type Params struct {
	// ProcessDirectory is where the processing pipeline runs and where
	// the prerequisite control file appears.
	ProcessDirectory string `json:"xds_dir"`

	// ImageDirectory, Prefix and RunNumber describe the frame files.
	ImageDirectory string `json:"directory"`
	Prefix         string `json:"prefix"`
	RunNumber      int    `json:"run_number"`

	// NumberOfImages is the frame count of the oscillation sequence.
	NumberOfImages int `json:"number_of_images"`

	CollectionID int `json:"collection_id"`

	// Crystallographic hints. Zero values mean "not supplied".
	Residues   float64 `json:"residues"`
	SpaceGroup string  `json:"spacegroup"`
	UnitCell   string  `json:"cell"`
}
