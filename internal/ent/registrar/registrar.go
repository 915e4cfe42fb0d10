package registrar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
)

// Assembly name prefixes of pBE48 (upstream) and pBE45 (downstream)
// receivers.
const (
	Assembly48 = "pBE48-"
	Assembly45 = "pBE45-"
)

// Registrar registers parts of a run using folders and schemas from the
// configuration.
type Registrar struct {
	cfg config.Config
	reg registry.Registry
}

// New creates a Registrar.
func New(cfg config.Config, reg registry.Registry) *Registrar {
	return &Registrar{cfg: cfg, reg: reg}
}

func (r *Registrar) registration() model.Registration {
	return model.Registration{RegistryID: r.cfg.Registration()}
}

// customKind is the kind of entities that are custom entities in
// production and bare DNA sequences in test mode.
func (r *Registrar) customKind() model.Kind {
	if r.cfg.Mode == config.ModeProduction {
		return model.CustomEntity
	}
	return model.DNASequence
}

// CrRNAs registers guide RNAs.
func (r *Registrar) CrRNAs(ctx context.Context, cs []model.CrRNA) error {
	t := model.Target{
		Kind:     model.DNASequence,
		FolderID: r.cfg.Folders.CrRNA,
		SchemaID: r.cfg.Schemas.GRNA,
	}

	pos := make(map[string]int, len(cs))
	for _, c := range cs {
		if isControl(c.ID) {
			continue
		}
		n, err := position(c.Loc)
		if err != nil {
			msg := fmt.Sprintf("crRNA %s: target position %q is not a number", c.ID, c.Loc)
			return errs.Wrap(errs.ParseError, msg, err)
		}
		pos[c.ID] = n
	}

	reg := r.registration()
	return Register(ctx, r.reg, t, cs, Binding[model.CrRNA]{
		Name: func(c model.CrRNA) string { return c.ID },
		Build: func(c model.CrRNA) model.Payload {
			return model.CrRNAPayload{
				Target:       t,
				Registration: reg,
				Name:         c.ID,
				Bases:        c.Seq,
				Strand:       c.Strand,
				Position:     pos[c.ID],
				Control:      isControl(c.ID),
			}
		},
		SetID: func(c *model.CrRNA, id string) { c.ExternalID = id },
	})
}

// Receivers registers receiver primers.
func (r *Registrar) Receivers(ctx context.Context, rs []model.Receiver) error {
	t := r.primerTarget()
	reg := r.registration()
	return Register(ctx, r.reg, t, rs, Binding[model.Receiver]{
		Name: func(p model.Receiver) string { return p.ID },
		Build: func(p model.Receiver) model.Payload {
			return model.PrimerPayload{
				Target: t, Registration: reg, Name: p.ID, Bases: p.Seq,
			}
		},
		SetID: func(p *model.Receiver, id string) { p.ExternalID = id },
	})
}

// Assemblies registers receiver assemblies: the backbone plasmid joined
// with a registered receiver primer.
func (r *Registrar) Assemblies(ctx context.Context, rs []model.Receiver) error {
	for i := range rs {
		if rs[i].ExternalID == "" {
			msg := fmt.Sprintf("Receiver %s is not registered", rs[i].ID)
			return errs.New(errs.LookupError, msg)
		}
		rs[i].AssemblyName = AssemblyName(rs[i])
	}

	t := model.Target{
		Kind:     r.customKind(),
		FolderID: r.cfg.Folders.Assemblies,
		SchemaID: r.cfg.Schemas.Receiver,
	}
	reg := r.registration()
	bb := r.cfg.Backbones
	return Register(ctx, r.reg, t, rs, Binding[model.Receiver]{
		Name: func(p model.Receiver) string { return p.AssemblyName },
		Build: func(p model.Receiver) model.Payload {
			res := model.AssemblyPayload{
				Target:         t,
				Registration:   reg,
				Name:           p.AssemblyName,
				Backbone:       bb.Plasmid45,
				BackbonePrimer: bb.Primer45,
				HomologyPrimer: p.ExternalID,
			}
			if p.Prefix == model.Upstream {
				res.Backbone = bb.Plasmid48
				res.BackbonePrimer = bb.Primer48
			}
			return res
		},
		SetID: func(p *model.Receiver, id string) { p.AssemblyID = id },
	})
}

// AssemblyName is pBE48-<id> for upstream receivers and pBE45-<id>
// otherwise.
func AssemblyName(p model.Receiver) string {
	if p.Prefix == model.Upstream {
		return Assembly48 + p.ID
	}
	return Assembly45 + p.ID
}

// Screening registers screening primers.
func (r *Registrar) Screening(ctx context.Context, ss []model.Screening) error {
	t := r.primerTarget()
	reg := r.registration()
	return Register(ctx, r.reg, t, ss, Binding[model.Screening]{
		Name: func(p model.Screening) string { return p.ID },
		Build: func(p model.Screening) model.Payload {
			return model.PrimerPayload{
				Target: t, Registration: reg, Name: p.ID, Bases: p.Seq,
			}
		},
		SetID: func(p *model.Screening, id string) { p.ExternalID = id },
	})
}

// Fragments registers genomic DNA fragments of strains. Genomes have to
// be resolved first.
func (r *Registrar) Fragments(ctx context.Context, gs []model.Genome) error {
	for i := range gs {
		gs[i].FragmentName = gs[i].BenchlingName + " gDNA"
	}
	t := model.Target{
		Kind:     model.DNASequence,
		FolderID: r.cfg.Folders.Fragments,
		SchemaID: r.cfg.Schemas.Fragment,
	}
	reg := r.registration()
	return Register(ctx, r.reg, t, gs, Binding[model.Genome]{
		Name: func(g model.Genome) string { return g.FragmentName },
		Build: func(g model.Genome) model.Payload {
			return model.FragmentPayload{
				Target: t, Registration: reg, Name: g.FragmentName, GenomeID: g.GenomeID,
			}
		},
		SetID: func(g *model.Genome, id string) { g.FragmentID = id },
	})
}

// Constructs registers BAC constructs.
func (r *Registrar) Constructs(ctx context.Context, cs []model.Construct) error {
	t := model.Target{
		Kind:     r.customKind(),
		FolderID: r.cfg.Folders.BACs,
		SchemaID: r.cfg.Schemas.BAC,
	}
	reg := r.registration()
	return Register(ctx, r.reg, t, cs, Binding[model.Construct]{
		Name: func(c model.Construct) string { return c.Name },
		Build: func(c model.Construct) model.Payload {
			return model.ConstructPayload{Target: t, Registration: reg, Construct: c}
		},
		SetID: func(c *model.Construct, id string) { c.ExternalID = id },
	})
}

func (r *Registrar) primerTarget() model.Target {
	return model.Target{
		Kind:     model.DNASequence,
		FolderID: r.cfg.Folders.Primers,
		SchemaID: r.cfg.Schemas.Primer,
	}
}

func isControl(id string) bool {
	return strings.HasPrefix(id, model.ControlPrefix)
}

func position(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
