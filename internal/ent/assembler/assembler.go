// Package assembler builds one BAC construct per cluster from registered
// parts.
package assembler

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// Inputs are registered parts and mappings of a run.
type Inputs struct {
	CrRNAs    []model.CrRNA
	Receivers []model.Receiver
	Screening []model.Screening
	Genomes   []model.Genome

	// Locations maps cluster numbers to destination wells.
	Locations map[int]string

	// ControlStrain is the selection name of the control strain.
	ControlStrain string

	// ControlWell is the destination well of the control construct.
	ControlWell string
}

// Assemble returns constructs for every cluster between the lowest and the
// highest crRNA cluster number, followed by the control construct. A
// missing part of any construct is a LookupError.
func Assemble(in Inputs) ([]model.Construct, error) {
	lo, hi, ok := clusterRange(in.CrRNAs)

	var res []model.Construct
	if ok {
		for i := lo; i <= hi; i++ {
			c, err := in.cluster(i)
			if err != nil {
				return nil, err
			}
			res = append(res, c)
		}
	}

	c, err := in.control()
	if err != nil {
		return nil, err
	}
	res = append(res, c)

	slog.Info("Assembled constructs", "count", len(res))
	return res, nil
}

func clusterRange(cs []model.CrRNA) (int, int, bool) {
	var lo, hi int
	var ok bool
	for _, c := range cs {
		n, err := strconv.Atoi(c.BGC)
		if err != nil {
			continue
		}
		if !ok || n < lo {
			lo = n
		}
		if !ok || n > hi {
			hi = n
		}
		ok = true
	}
	return lo, hi, ok
}

func (in Inputs) cluster(n int) (model.Construct, error) {
	bgc := model.BGCCode(n)
	res := model.Construct{Name: "CLC" + bgc, BGC: bgc}

	down, err := in.crRNA(bgc, model.Downstream)
	if err != nil {
		return res, err
	}
	if err = in.parts(&res, down.Strain); err != nil {
		return res, err
	}

	well, ok := in.Locations[n]
	if !ok || well == "" {
		return res, missing(bgc, "96_well_formatted")
	}
	res.Well96 = well
	return res, nil
}

func (in Inputs) control() (model.Construct, error) {
	bgc := model.ControlBGC
	up, err := in.crRNA(bgc, model.Upstream)
	if err != nil {
		return model.Construct{}, err
	}
	id := up.ID
	if len(id) > 3 {
		id = id[len(id)-3:]
	}
	res := model.Construct{
		Name:   model.ControlPrefix + "_" + id,
		BGC:    bgc,
		Well96: in.ControlWell,
	}
	if err = in.parts(&res, in.ControlStrain); err != nil {
		return res, err
	}
	return res, nil
}

// parts fills references of a construct to its registered parts.
func (in Inputs) parts(c *model.Construct, strain string) error {
	bgc := c.BGC
	up, err := in.crRNA(bgc, model.Upstream)
	if err != nil {
		return err
	}
	down, err := in.crRNA(bgc, model.Downstream)
	if err != nil {
		return err
	}
	c.GRNAUp, c.GRNADown = up.ExternalID, down.ExternalID

	r48, err := in.receiver(bgc, model.Upstream)
	if err != nil {
		return err
	}
	r45, err := in.receiver(bgc, model.Downstream)
	if err != nil {
		return err
	}
	c.RecPrimerU48, c.RecAsmU48 = r48.ExternalID, r48.AssemblyID
	c.RecPrimerD45, c.RecAsmD45 = r45.ExternalID, r45.AssemblyID

	f, err := in.screening(bgc, model.Forward)
	if err != nil {
		return err
	}
	r, err := in.screening(bgc, model.Reverse)
	if err != nil {
		return err
	}
	c.ScrPrimerF, c.ScrPrimerR = f.ExternalID, r.ExternalID

	g, err := in.genome(bgc, strain)
	if err != nil {
		return err
	}
	c.Strain, c.DNAFragment = g.GenomeID, g.FragmentID

	return nil
}

func (in Inputs) crRNA(bgc, side string) (model.CrRNA, error) {
	for _, c := range in.CrRNAs {
		if c.BGC == bgc && c.Prefix == side {
			return c, nil
		}
	}
	return model.CrRNA{}, missing(bgc, "crRNA "+side)
}

func (in Inputs) receiver(bgc, side string) (model.Receiver, error) {
	for _, r := range in.Receivers {
		if r.BGC == bgc && r.Prefix == side {
			return r, nil
		}
	}
	return model.Receiver{}, missing(bgc, "receiver primer "+side)
}

func (in Inputs) screening(bgc, side string) (model.Screening, error) {
	for _, s := range in.Screening {
		if s.BGC == bgc && s.Suffix == side {
			return s, nil
		}
	}
	return model.Screening{}, missing(bgc, "screening primer "+side)
}

func (in Inputs) genome(bgc, strain string) (model.Genome, error) {
	for _, g := range in.Genomes {
		if g.SelectionName == strain {
			return g, nil
		}
	}
	return model.Genome{}, missing(bgc, fmt.Sprintf("strain %q", strain))
}

func missing(bgc, field string) error {
	msg := fmt.Sprintf("Cannot find %s for cluster %s", field, bgc)
	slog.Warn("Incomplete construct", "BGC_number", bgc, "field", field)
	return errs.New(errs.LookupError, msg)
}
