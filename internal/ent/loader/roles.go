package loader

import "path/filepath"

// Role is the logical name of one of the seven input files. The name of a
// file entity in the registry must contain its role.
type Role string

// Input roles.
const (
	CrRNAMeta     Role = "crRNA_metadata"
	ReceiverMeta  Role = "receiver_primers_metadata"
	ScreeningMeta Role = "screening_primers_metadata"
	CrRNASpec     Role = "crRNA_plate_specs"
	PrimersSpec   Role = "primers_plate_specs"
	Genomes       Role = "strain_names_mapping"
	Locations     Role = "plate_location_mapping"
)

// Roles lists all input roles in the order they are loaded.
var Roles = []Role{
	CrRNAMeta, ReceiverMeta, ScreeningMeta,
	CrRNASpec, PrimersSpec, Genomes, Locations,
}

var fileNames = map[Role]string{
	CrRNAMeta:     "crrna_metadata.csv",
	ReceiverMeta:  "rec_metadata.csv",
	ScreeningMeta: "scr_metadata.csv",
	CrRNASpec:     "crrna_specs.csv",
	PrimersSpec:   "primers_specs.csv",
	Genomes:       "genome.csv",
	Locations:     "mapping.csv",
}

// Required are the columns every input must have.
var Required = map[Role][]string{
	CrRNAMeta: {
		"BGC_number", "strain_name", "crRNA_prefix", "crRNA_strand",
		"crRNA_loc", "crRNA_id", "crRNA", "Well Position", "Order ID",
	},
	ReceiverMeta: {
		"BGC_number", "receiver_primer_id", "crRNA_prefix",
		"receiver_primer_seq", "Well Position",
	},
	ScreeningMeta: {
		"BGC_num", "locus tag", "f_primer_name", "f_primer_sequences(5-3)",
		"f_well_position", "r_primer_name", "r_primer_sequences(5-3)",
		"r_well_position",
	},
	CrRNASpec:   {"Well Position", "Sequence Name", "Sequence", "µg"},
	PrimersSpec: {"Well Position", "Sequence Name", "Sequence", "Final Volume µL "},
	Genomes:     {"benchling_name", "selection_name"},
	Locations:   {"BGC_number", "96_well_formatted"},
}

// Files maps roles to local paths.
type Files map[Role]string

// NewFiles returns default locations of the input files inside dir.
func NewFiles(dir string) Files {
	res := make(Files, len(Roles))
	for _, r := range Roles {
		res[r] = filepath.Join(dir, fileNames[r])
	}
	return res
}

// Paths returns file paths ordered by Roles.
func (f Files) Paths() []string {
	res := make([]string, 0, len(f))
	for _, r := range Roles {
		if p, ok := f[r]; ok {
			res = append(res, p)
		}
	}
	return res
}
