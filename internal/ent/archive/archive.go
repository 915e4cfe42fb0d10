// Package archive converts results of a run to rows of the archive
// database.
package archive

import (
	"time"

	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// Part types.
const (
	PartCrRNA     = "crRNA"
	PartReceiver  = "receiver"
	PartAssembly  = "assembly"
	PartScreening = "screening"
	PartFragment  = "fragment"
)

// Record is one archived run.
type Record struct {
	Run        model.ArchivedRun
	Constructs []model.ArchivedConstruct
	Parts      []model.ArchivedPart
}

// Input contains everything a run produced.
type Input struct {
	RunID      string
	Order      string
	Mode       string
	ManifestID string
	CrRNAs     []model.CrRNA
	Receivers  []model.Receiver
	Screening  []model.Screening
	Genomes    []model.Genome
	Constructs []model.Construct
}

// NewRecord creates archive rows of a run.
func NewRecord(in Input, at time.Time) Record {
	res := Record{
		Run: model.ArchivedRun{
			ID:         in.RunID,
			Order:      in.Order,
			Mode:       in.Mode,
			ManifestID: in.ManifestID,
			CreatedAt:  at,
		},
	}

	for _, c := range in.Constructs {
		res.Constructs = append(res.Constructs, model.ArchivedConstruct{
			RunID:        in.RunID,
			Name:         c.Name,
			BGC:          c.BGC,
			ExternalID:   c.ExternalID,
			Well96:       c.Well96,
			GRNAUp:       c.GRNAUp,
			GRNADown:     c.GRNADown,
			Strain:       c.Strain,
			DNAFragment:  c.DNAFragment,
			RecPrimerU48: c.RecPrimerU48,
			RecPrimerD45: c.RecPrimerD45,
			RecAsmU48:    c.RecAsmU48,
			RecAsmD45:    c.RecAsmD45,
			ScrPrimerF:   c.ScrPrimerF,
			ScrPrimerR:   c.ScrPrimerR,
		})
	}

	part := func(typ, name, id, bgc, well, seq string) {
		res.Parts = append(res.Parts, model.ArchivedPart{
			RunID:      in.RunID,
			Type:       typ,
			Name:       name,
			ExternalID: id,
			BGC:        bgc,
			Well:       well,
			Sequence:   seq,
		})
	}
	for _, c := range in.CrRNAs {
		part(PartCrRNA, c.ID, c.ExternalID, c.BGC, c.Well, c.Seq)
	}
	for _, r := range in.Receivers {
		part(PartReceiver, r.ID, r.ExternalID, r.BGC, r.Well, r.Seq)
		part(PartAssembly, r.AssemblyName, r.AssemblyID, r.BGC, "", "")
	}
	for _, s := range in.Screening {
		part(PartScreening, s.ID, s.ExternalID, s.BGC, s.Well, s.Seq)
	}
	for _, g := range in.Genomes {
		part(PartFragment, g.FragmentName, g.FragmentID, "", "", "")
	}
	return res
}
