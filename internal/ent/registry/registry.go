// Package registry describes the entity registry used by the pipeline:
// entities, file entities, plates, transfers and notebook entries.
package registry

// Entity is a registered object.
type Entity struct {
	ID   string
	Name string
}

// FileEntity is a custom entity with a CSV blob attached to its CSV field.
type FileEntity struct {
	ID   string
	Name string

	// BlobID is the value of the CSV field.
	BlobID string

	// FileName is the display value of the CSV field.
	FileName string
}

// Well is the content of one plate well.
type Well struct {
	// ID of the container.
	ID      string
	Barcode string
	Name    string
}

// Plate is a plate with wells keyed by their label, for example "A1".
type Plate struct {
	ID    string
	Name  string
	Wells map[string]Well
}

// Units of transfer quantities.
const (
	Micrograms  = "ug"
	Microliters = "uL"
)

// Transfer moves an entity into a container.
type Transfer struct {
	// DestinationID is the container ID.
	DestinationID string

	// SourceID is the entity ID.
	SourceID string

	Quantity float64
	Units    string
}

// Note is one note inside a notebook entry day.
type Note struct {
	// Type is "results_table" for results tables.
	Type string

	// APIID is the ID of a results table.
	APIID string

	// AssaySchemaID of a results table.
	AssaySchemaID string
}

// Day is a page of a notebook entry.
type Day struct {
	Notes []Note
}

// ResultsTable is the note type of a results table.
const ResultsTable = "results_table"

// Entry is a notebook entry.
type Entry struct {
	ID   string
	Name string
	Days []Day
}
