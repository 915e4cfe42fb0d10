package model

// Kind is the kind of a registry entity.
type Kind string

const (
	// DNASequence entities carry bases.
	DNASequence Kind = "dna_sequence"
	// CustomEntity entities carry only schema fields.
	CustomEntity Kind = "custom_entity"
)

// NewIDs is the naming strategy that keeps given names and assigns new
// registry IDs.
const NewIDs = "NEW_IDS"

// Fields are schema field values keyed by field display name.
type Fields map[string]any

// Target is a folder and schema where entities of a kind live.
type Target struct {
	Kind     Kind
	FolderID string
	SchemaID string
}

// Registration holds registry arguments. An empty RegistryID means the
// entity is created without registering it (test mode).
type Registration struct {
	RegistryID string
}

// EntityCreate is the uniform creation request sent to a registry.
type EntityCreate struct {
	Kind           Kind
	Name           string
	FolderID       string
	SchemaID       string
	Bases          string
	IsCircular     bool
	Fields         Fields
	RegistryID     string
	NamingStrategy string
}

// Payload is implemented by every concrete entity payload.
type Payload interface {
	// Create converts a payload to a creation request.
	Create() EntityCreate
}

func (t Target) base(name string, reg Registration) EntityCreate {
	res := EntityCreate{
		Kind:     t.Kind,
		Name:     name,
		FolderID: t.FolderID,
		SchemaID: t.SchemaID,
	}
	if reg.RegistryID != "" {
		res.RegistryID = reg.RegistryID
		res.NamingStrategy = NewIDs
	}
	return res
}

// CrRNAPayload creates a guide RNA DNA sequence.
type CrRNAPayload struct {
	Target
	Registration
	Name  string
	Bases string

	// Strand and Position are omitted for control crRNAs.
	Strand   string
	Position int
	Control  bool
}

// Create implements Payload.
func (p CrRNAPayload) Create() EntityCreate {
	res := p.base(p.Name, p.Registration)
	res.Bases = p.Bases
	if !p.Control {
		res.Fields = Fields{
			"Target strand":   p.Strand,
			"Target position": p.Position,
		}
	}
	return res
}

// PrimerPayload creates a primer DNA sequence.
type PrimerPayload struct {
	Target
	Registration
	Name  string
	Bases string
}

// Create implements Payload.
func (p PrimerPayload) Create() EntityCreate {
	res := p.base(p.Name, p.Registration)
	res.Bases = p.Bases
	return res
}

// AssemblyPayload creates a receiver assembly. With a DNASequence target
// bases are empty.
type AssemblyPayload struct {
	Target
	Registration
	Name           string
	Backbone       string
	BackbonePrimer string
	HomologyPrimer string
}

// Create implements Payload.
func (p AssemblyPayload) Create() EntityCreate {
	res := p.base(p.Name, p.Registration)
	res.Fields = Fields{
		"Backbone":        p.Backbone,
		"Backbone primer": p.BackbonePrimer,
		"Homology primer": p.HomologyPrimer,
	}
	return res
}

// FragmentPayload creates a genomic DNA fragment of a strain.
type FragmentPayload struct {
	Target
	Registration
	Name     string
	GenomeID string
}

// Create implements Payload.
func (p FragmentPayload) Create() EntityCreate {
	res := p.base(p.Name, p.Registration)
	res.Fields = Fields{"Template strains": []string{p.GenomeID}}
	return res
}

// ConstructPayload creates a BAC construct entity.
type ConstructPayload struct {
	Target
	Registration
	Construct
}

// Create implements Payload.
func (p ConstructPayload) Create() EntityCreate {
	c := p.Construct
	res := p.base(c.Name, p.Registration)
	res.Fields = Fields{
		"Well96":                  c.Well96,
		"gRNA - Up":               c.GRNAUp,
		"gRNA - Down":             c.GRNADown,
		"Receiver Primer pBE45":   c.RecPrimerD45,
		"Receiver Primer pBE48":   c.RecPrimerU48,
		"Receiver Assembly pBE45": c.RecAsmD45,
		"Receiver Assembly pBE48": c.RecAsmU48,
		"Screening Primer CF":     c.ScrPrimerF,
		"Screening Primer CR":     c.ScrPrimerR,
		"Strain":                  c.Strain,
		"DNA fragment":            c.DNAFragment,
	}
	return res
}

// ManifestPayload creates the custom entity that links the manifest blob.
type ManifestPayload struct {
	Target
	Name   string
	BlobID string
}

// Create implements Payload.
func (p ManifestPayload) Create() EntityCreate {
	res := p.base(p.Name, Registration{})
	res.Fields = Fields{"CSV": p.BlobID}
	return res
}

// AssayResult is one row of a notebook results table.
type AssayResult struct {
	SchemaID  string
	ProjectID string
	Fields    Fields
}
