// Package model contains records produced by the pipeline: cleaned
// domain parts, constructs, payloads for the entity registry and rows for
// the archive database.
package model

import "fmt"

// Side of a cluster a part belongs to.
const (
	// Upstream side, served by pBE48 receivers.
	Upstream = "U"
	// Downstream side, served by pBE45 receivers.
	Downstream = "D"
	// Forward screening primer.
	Forward = "F"
	// Reverse screening primer.
	Reverse = "R"
)

// ControlBGC is the BGC_number token of the actinorhodin control family.
const ControlBGC = "act"

// ControlPrefix starts every ID of the control family.
const ControlPrefix = "CLCact"

// BGCCode formats a cluster number as a zero-padded 3-digit code.
func BGCCode(n int) string {
	return fmt.Sprintf("%03d", n)
}

// CrRNA is a guide RNA confirmed by the vendor plate and lab metadata.
type CrRNA struct {
	// Well is the vendor plate well (well_crrna_idt).
	Well string

	// ID is the crRNA name (crRNA_id).
	ID string

	// SeqIDT is the vendor sequence without synthesis annotations
	// (crrna_seq_idt).
	SeqIDT string

	// Seq is the DNA spacer from metadata (crRNA).
	Seq string

	// BGC is a zero-padded cluster number or ControlBGC.
	BGC string

	// Strain is the selection name of the host strain (strain_name).
	Strain string

	// Prefix is Upstream or Downstream (crRNA_prefix).
	Prefix string

	// Strand is the target strand (crRNA_strand).
	Strand string

	// Loc is the target position (crRNA_loc).
	Loc string

	// UG is the synthesized amount in micrograms (ug).
	UG string

	// ExternalID is the registry ID (crRNA_b_id).
	ExternalID string
}

// Receiver is a homology-arm primer of a receiver plasmid.
type Receiver struct {
	// Well is the vendor plate well (well_primer_idt).
	Well string

	// Seq is the vendor primer sequence (primer_seq_idt).
	Seq string

	// UL is the final volume in microliters (ul_primers).
	UL string

	// BGC is a zero-padded cluster number or ControlBGC.
	BGC string

	// Prefix is Upstream or Downstream (crRNA_prefix).
	Prefix string

	// ID is the primer name (receiver_primer_id).
	ID string

	// ExternalID is the registry ID of the primer (receiver_primer_b_id).
	ExternalID string

	// AssemblyName is pBE48-<ID> or pBE45-<ID> (clc_receiver_name).
	AssemblyName string

	// AssemblyID is the registry ID of the assembly (clc_receiver_b_id).
	AssemblyID string
}

// Screening is a screening PCR primer.
type Screening struct {
	// Well is the vendor plate well (well_primer_idt).
	Well string

	// ID is the plate primer name (primer_id).
	ID string

	// Seq is the vendor primer sequence (primer_seq_idt).
	Seq string

	// UL is the final volume in microliters (ul_primers).
	UL string

	// BGC is a zero-padded cluster number or ControlBGC.
	BGC string

	// LocusTag of the cluster (locus tag).
	LocusTag string

	// Suffix is Forward or Reverse (sufix).
	Suffix string

	// ExternalID is the registry ID (primer_b_id).
	ExternalID string
}

// Genome maps a strain name used in selection to its registry name.
type Genome struct {
	// BenchlingName is the name of the strain in the registry.
	BenchlingName string

	// SelectionName is the name of the strain in crRNA metadata.
	SelectionName string

	// GenomeID is the registry ID of the strain (genome_b_id).
	GenomeID string

	// FragmentName is '<BenchlingName> gDNA' (dna_fragment).
	FragmentName string

	// FragmentID is the registry ID of the fragment (dna_fragment_b_id).
	FragmentID string
}

// Construct is one BAC construction plan.
type Construct struct {
	Name         string
	BGC          string
	GRNAUp       string
	GRNADown     string
	Strain       string
	DNAFragment  string
	RecPrimerU48 string
	RecPrimerD45 string
	RecAsmU48    string
	RecAsmD45    string
	ScrPrimerF   string
	ScrPrimerR   string
	Well96       string
	ExternalID   string
}

// ManifestHeader is the column order of the IDs manifest.
var ManifestHeader = []string{
	"bac_name", "BGC_number", "grna_U", "grna_D", "strain_name",
	"dna_fragment", "rec_primer_U_48", "rec_primer_D_45",
	"clc_rec_primer_U_48", "clc_rec_primer_D_45", "scr_primer_f",
	"scr_primer_r", "well_96", "bac_b_id",
}

// ManifestRow returns the values of a construct ordered as ManifestHeader.
func (c Construct) ManifestRow() []string {
	return []string{
		c.Name, c.BGC, c.GRNAUp, c.GRNADown, c.Strain,
		c.DNAFragment, c.RecPrimerU48, c.RecPrimerD45,
		c.RecAsmU48, c.RecAsmD45, c.ScrPrimerF,
		c.ScrPrimerR, c.Well96, c.ExternalID,
	}
}
