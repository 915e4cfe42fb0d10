package registrar_test

import (
	"context"

	"github.com/attilauslu/oligocraft/internal/ent/registrar"
	"github.com/attilauslu/oligocraft/internal/io/memio"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func testConfig(opts ...config.Option) config.Config {
	opts = append([]config.Option{
		config.OptRegistryID("src_reg"),
		config.OptFolders(config.Folders{
			CrRNA: "lib_crrna", Primers: "lib_primers", Assemblies: "lib_asm",
			CLCStrains: "lib_clc", NBCStrains: "lib_nbc", Fragments: "lib_frag",
			BACs: "lib_bac",
		}),
		config.OptSchemas(config.Schemas{
			GRNA: "ts_grna", Primer: "ts_primer", Receiver: "ts_rec",
			Strain: "ts_strain", Fragment: "ts_frag", BAC: "ts_bac",
		}),
		config.OptBackbones(config.Backbones{
			Primer48: "seq_p48", Plasmid48: "seq_b48",
			Primer45: "seq_p45", Plasmid45: "seq_b45",
		}),
	}, opts...)
	return config.New(opts...)
}

var _ = Describe("Register", func() {
	var (
		ctx context.Context
		mem *memio.Memory
		t   model.Target
	)

	type row struct {
		name string
		id   string
	}

	binding := registrar.Binding[row]{
		Name: func(r row) string { return r.name },
		Build: func(r row) model.Payload {
			return model.PrimerPayload{Target: t, Name: r.name, Bases: "ACGT"}
		},
		SetID: func(r *row, id string) { r.id = id },
	}

	BeforeEach(func() {
		ctx = context.Background()
		mem = memio.New()
		t = model.Target{Kind: model.DNASequence, FolderID: "lib_1", SchemaID: "ts_1"}
	})

	It("uses existing IDs and creates the rest in one batch", func() {
		oldID := mem.AddEntity(t, "P1")
		rows := []row{{name: "P1"}, {name: "P2"}, {name: "P3"}, {name: "P2"}}
		err := registrar.Register(ctx, mem, t, rows, binding)
		Expect(err).ToNot(HaveOccurred())
		Expect(rows[0].id).To(Equal(oldID))
		Expect(rows[1].id).ToNot(BeEmpty())
		Expect(rows[3].id).To(Equal(rows[1].id))
		Expect(mem.BulkCalls()).To(Equal(1))
		Expect(mem.Created()).To(HaveLen(2))
	})

	It("is idempotent", func() {
		rows := []row{{name: "P1"}, {name: "P2"}}
		Expect(registrar.Register(ctx, mem, t, rows, binding)).To(Succeed())
		first := []string{rows[0].id, rows[1].id}

		again := []row{{name: "P1"}, {name: "P2"}}
		Expect(registrar.Register(ctx, mem, t, again, binding)).To(Succeed())
		Expect(mem.BulkCalls()).To(Equal(1))
		Expect([]string{again[0].id, again[1].id}).To(Equal(first))
	})

	It("does not call the registry when every name is known", func() {
		mem.AddEntity(t, "P1")
		rows := []row{{name: "P1"}}
		Expect(registrar.Register(ctx, mem, t, rows, binding)).To(Succeed())
		Expect(mem.BulkCalls()).To(Equal(0))
	})
})

var _ = Describe("Registrar", func() {
	var (
		ctx context.Context
		mem *memio.Memory
	)

	BeforeEach(func() {
		ctx = context.Background()
		mem = memio.New()
	})

	It("registers crRNAs with target fields except for controls", func() {
		r := registrar.New(testConfig(config.OptMode(config.ModeProduction)), mem)
		cs := []model.CrRNA{
			{ID: "CLC005crRNAU1", Seq: "ACGT", Strand: "+", Loc: "1200.0"},
			{ID: "CLCactcrRNAU188", Seq: "GAAT"},
		}
		Expect(r.CrRNAs(ctx, cs)).To(Succeed())
		Expect(cs[0].ExternalID).ToNot(BeEmpty())
		Expect(cs[1].ExternalID).ToNot(BeEmpty())

		created := mem.Created()
		Expect(created).To(HaveLen(2))
		Expect(created[0].Fields).To(Equal(model.Fields{
			"Target strand": "+", "Target position": 1200,
		}))
		Expect(created[0].RegistryID).To(Equal("src_reg"))
		Expect(created[0].NamingStrategy).To(Equal(model.NewIDs))
		Expect(created[1].Fields).To(BeNil())
	})

	It("rejects non-numeric target positions", func() {
		r := registrar.New(testConfig(), mem)
		cs := []model.CrRNA{{ID: "CLC005crRNAU1", Loc: "left"}}
		err := r.CrRNAs(ctx, cs)
		Expect(errs.Is(err, errs.ParseError)).To(BeTrue())
	})

	It("registers assemblies as DNA sequences in test mode", func() {
		r := registrar.New(testConfig(), mem)
		rs := []model.Receiver{
			{ID: "CLC005r48U", Prefix: model.Upstream, Seq: "ACGT"},
			{ID: "CLC005r45D", Prefix: model.Downstream, Seq: "TTGA"},
		}
		Expect(r.Receivers(ctx, rs)).To(Succeed())
		Expect(r.Assemblies(ctx, rs)).To(Succeed())
		Expect(rs[0].AssemblyName).To(Equal("pBE48-CLC005r48U"))
		Expect(rs[1].AssemblyName).To(Equal("pBE45-CLC005r45D"))
		Expect(rs[0].AssemblyID).ToNot(BeEmpty())

		created := mem.Created()
		Expect(created).To(HaveLen(4))
		asm := created[2]
		Expect(asm.Kind).To(Equal(model.DNASequence))
		Expect(asm.Bases).To(BeEmpty())
		Expect(asm.RegistryID).To(BeEmpty())
		Expect(asm.Fields["Backbone"]).To(Equal("seq_b48"))
		Expect(asm.Fields["Backbone primer"]).To(Equal("seq_p48"))
		Expect(asm.Fields["Homology primer"]).To(Equal(rs[0].ExternalID))
		Expect(created[3].Fields["Backbone"]).To(Equal("seq_b45"))
	})

	It("registers assemblies as custom entities in production", func() {
		r := registrar.New(testConfig(config.OptMode(config.ModeProduction)), mem)
		rs := []model.Receiver{{ID: "CLC005r48U", Prefix: model.Upstream, ExternalID: "seq_1"}}
		Expect(r.Assemblies(ctx, rs)).To(Succeed())
		Expect(mem.Created()[0].Kind).To(Equal(model.CustomEntity))
	})

	Describe("Genomes", func() {
		It("finds strains in both folders", func() {
			cfg := testConfig()
			r := registrar.New(cfg, mem)
			clc := mem.AddEntity(model.Target{
				Kind: model.CustomEntity, FolderID: "lib_clc", SchemaID: "ts_strain",
			}, "Streptomyces albus J1074")
			nbc := mem.AddEntity(model.Target{
				Kind: model.CustomEntity, FolderID: "lib_nbc", SchemaID: "ts_strain",
			}, "Streptomyces coelicolor A3(2) M145")
			gs := []model.Genome{
				{BenchlingName: "Streptomyces albus J1074"},
				{BenchlingName: "Streptomyces coelicolor A3(2) M145"},
			}
			Expect(r.Genomes(ctx, gs)).To(Succeed())
			Expect(gs[0].GenomeID).To(Equal(clc))
			Expect(gs[1].GenomeID).To(Equal(nbc))

			Expect(r.Fragments(ctx, gs)).To(Succeed())
			Expect(gs[0].FragmentName).To(Equal("Streptomyces albus J1074 gDNA"))
			Expect(gs[0].FragmentID).ToNot(BeEmpty())
			Expect(mem.Created()[0].Fields).To(Equal(model.Fields{
				"Template strains": []string{clc},
			}))
		})

		It("reports a missing strain", func() {
			r := registrar.New(testConfig(), mem)
			gs := []model.Genome{{BenchlingName: "Streptomyces griseus"}}
			err := r.Genomes(ctx, gs)
			Expect(errs.Is(err, errs.LookupError)).To(BeTrue())
			Expect(err.Error()).To(HavePrefix(
				"Check if the genome Streptomyces griseus can be found in Benchling",
			))
		})
	})
})
