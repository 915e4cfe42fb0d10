package oligocraft

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/attilauslu/oligocraft/internal/ent/archive"
	"github.com/attilauslu/oligocraft/internal/ent/assembler"
	"github.com/attilauslu/oligocraft/internal/ent/fetch"
	"github.com/attilauslu/oligocraft/internal/ent/filler"
	"github.com/attilauslu/oligocraft/internal/ent/loader"
	"github.com/attilauslu/oligocraft/internal/ent/manifest"
	"github.com/attilauslu/oligocraft/internal/ent/merger"
	"github.com/attilauslu/oligocraft/internal/ent/notebook"
	"github.com/attilauslu/oligocraft/internal/ent/registrar"
	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ManifestFile is the name of the local manifest file.
const ManifestFile = "api_ids.csv"

// Request describes one run.
type Request struct {
	// FileIDs are registry IDs of the seven input file entities.
	FileIDs []string

	// PlateIDs are registry IDs of the crRNA, REC and SCR plates.
	PlateIDs []string

	// Notebook is the name of the notebook entry for results.
	Notebook string
}

// Summary contains counts of loaded and merged parts.
type Summary struct {
	CrRNAs    int
	Receivers int
	Screening int
	Genomes   int
	Locations int
}

// Report describes a successful run.
type Report struct {
	// RunID is a random UUID of the run.
	RunID string

	// Order is the plate order number.
	Order string

	// ManifestID is the registry ID of the manifest entity.
	ManifestID string

	Constructs []model.Construct

	// Parts are registered parts of the run.
	Parts merger.Result

	Summary Summary
}

// oligocraft is an implementation of OligoCraft interface.
type oligocraft struct {
	cfg config.Config
	reg registry.Registry
}

// New creates a new instance of OligoCraft.
func New(
	cfg config.Config,
	reg registry.Registry,
) OligoCraft {
	res := oligocraft{
		cfg: cfg,
		reg: reg,
	}
	return &res
}

// Run downloads input files, registers parts and constructs, uploads the
// manifest, fills plates and writes notebook results. A failing stage
// stops the run. Input files are kept when the run stops before the
// manifest is uploaded.
func (o *oligocraft) Run(ctx context.Context, req Request) (Report, error) {
	res := Report{RunID: uuid.NewString()}
	log := slog.With("run", res.RunID)
	log.Info("Starting run", "mode", o.cfg.Mode, "files", len(req.FileIDs))

	files := loader.NewFiles(o.cfg.DownloadDir)
	if err := fetch.Remove(files.Paths()...); err != nil {
		return res, errs.Wrap(errs.ConfigurationError, "cannot remove old input files", err)
	}

	for _, id := range req.FileIDs {
		if _, err := fetch.Download(ctx, o.reg, id, files); err != nil {
			return res, err
		}
	}
	if err := fetch.CheckAll(files); err != nil {
		return res, err
	}

	in, parts, err := o.load(files)
	if err != nil {
		return res, err
	}
	res.Summary = summary(parts)

	res.Order, err = manifest.Order(in.CrRNAMeta)
	if err != nil {
		return res, err
	}

	r := registrar.New(o.cfg, o.reg)
	if err = o.preflight(ctx, r, parts); err != nil {
		return res, err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"crRNA", func() error { return r.CrRNAs(ctx, parts.CrRNAs) }},
		{"receivers", func() error { return r.Receivers(ctx, parts.Receivers) }},
		{"assemblies", func() error { return r.Assemblies(ctx, parts.Receivers) }},
		{"screening", func() error { return r.Screening(ctx, parts.Screening) }},
		{"fragments", func() error { return r.Fragments(ctx, parts.Genomes) }},
	}
	for _, s := range steps {
		log.Info("Registration step", "step", s.name)
		if err = s.fn(); err != nil {
			return res, err
		}
	}

	cs, err := assembler.Assemble(o.assembly(parts))
	if err != nil {
		return res, err
	}
	if err = r.Constructs(ctx, cs); err != nil {
		return res, err
	}
	res.Constructs = cs
	res.Parts = parts

	path := filepath.Join(o.cfg.ProcessedDir, ManifestFile)
	if err = manifest.Write(path, cs); err != nil {
		return res, err
	}
	ent, err := manifest.Upload(ctx, o.reg, o.cfg, path, res.Order)
	if err != nil {
		return res, err
	}
	res.ManifestID = ent.ID

	if err = fetch.Remove(append(files.Paths(), path)...); err != nil {
		return res, err
	}

	stock := filler.Stock{
		CrRNAs:    parts.CrRNAs,
		Receivers: parts.Receivers,
		Screening: parts.Screening,
	}
	if err = filler.Fill(ctx, o.reg, req.PlateIDs, res.Order, stock); err != nil {
		return res, err
	}

	if err = notebook.Write(ctx, o.reg, o.cfg, req.Notebook, cs); err != nil {
		return res, err
	}

	log.Info("Run finished",
		"order", res.Order,
		"constructs", humanize.Comma(int64(len(cs))),
		"manifest", res.ManifestID,
	)
	return res, nil
}

// Validate loads and merges input files.
func (o *oligocraft) Validate(_ context.Context, files loader.Files) (Summary, error) {
	if err := fetch.CheckAll(files); err != nil {
		return Summary{}, err
	}
	_, parts, err := o.load(files)
	if err != nil {
		return Summary{}, err
	}
	return summary(parts), nil
}

// Archive saves a successful run.
func (o *oligocraft) Archive(ctx context.Context, a archive.Archiver, rep Report) error {
	rec := archive.NewRecord(archive.Input{
		RunID:      rep.RunID,
		Order:      rep.Order,
		Mode:       o.cfg.Mode.String(),
		ManifestID: rep.ManifestID,
		CrRNAs:     rep.Parts.CrRNAs,
		Receivers:  rep.Parts.Receivers,
		Screening:  rep.Parts.Screening,
		Genomes:    rep.Parts.Genomes,
		Constructs: rep.Constructs,
	}, time.Now())
	if err := a.Save(ctx, rec); err != nil {
		slog.Error("Cannot archive run", "run", rep.RunID, "error", err)
		return errs.Wrap(errs.ExternalServiceError, "cannot archive run", err)
	}
	slog.Info("Run archived", "run", rep.RunID, "parts", humanize.Comma(int64(len(rec.Parts))))
	return nil
}

// preflight resolves genomes and assembles constructs without IDs, so that
// a missing strain or construct part stops the run before anything is
// created. Genome lookup only lists registry entities.
func (o *oligocraft) preflight(ctx context.Context, r *registrar.Registrar, parts merger.Result) error {
	if err := r.Genomes(ctx, parts.Genomes); err != nil {
		return err
	}
	if _, err := assembler.Assemble(o.assembly(parts)); err != nil {
		return err
	}
	return nil
}

func (o *oligocraft) assembly(parts merger.Result) assembler.Inputs {
	return assembler.Inputs{
		CrRNAs:        parts.CrRNAs,
		Receivers:     parts.Receivers,
		Screening:     parts.Screening,
		Genomes:       parts.Genomes,
		Locations:     parts.Locations,
		ControlStrain: o.cfg.ControlStrain,
		ControlWell:   o.cfg.ControlWell,
	}
}

func (o *oligocraft) load(files loader.Files) (loader.Inputs, merger.Result, error) {
	in, err := loader.LoadAll(files)
	if err != nil {
		slog.Warn("Cannot load input files", "error", err)
		return in, merger.Result{}, err
	}
	parts, err := merger.All(in, o.cfg.OnlyCPrimers)
	if err != nil {
		slog.Warn("Input files are inconsistent", "error", err)
		return in, merger.Result{}, err
	}
	return in, parts, nil
}

func summary(r merger.Result) Summary {
	return Summary{
		CrRNAs:    len(r.CrRNAs),
		Receivers: len(r.Receivers),
		Screening: len(r.Screening),
		Genomes:   len(r.Genomes),
		Locations: len(r.Locations),
	}
}
