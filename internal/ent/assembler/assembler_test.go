package assembler_test

import (
	"github.com/attilauslu/oligocraft/internal/ent/assembler"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func parts(bgc, id string) assembler.Inputs {
	return assembler.Inputs{
		CrRNAs: []model.CrRNA{
			{ID: id + "crRNAU1", BGC: bgc, Prefix: "U", Strain: "albus", ExternalID: bgc + "_gU"},
			{ID: id + "crRNAD1", BGC: bgc, Prefix: "D", Strain: "albus", ExternalID: bgc + "_gD"},
		},
		Receivers: []model.Receiver{
			{BGC: bgc, Prefix: "U", ExternalID: bgc + "_r48", AssemblyID: bgc + "_a48"},
			{BGC: bgc, Prefix: "D", ExternalID: bgc + "_r45", AssemblyID: bgc + "_a45"},
		},
		Screening: []model.Screening{
			{BGC: bgc, Suffix: "F", ExternalID: bgc + "_cf"},
			{BGC: bgc, Suffix: "R", ExternalID: bgc + "_cr"},
		},
	}
}

func inputs() assembler.Inputs {
	one := parts("001", "CLC001")
	act := parts("act", "CLCact")
	act.CrRNAs[0].ID = "CLCactcrRNAU188"
	return assembler.Inputs{
		CrRNAs:    append(one.CrRNAs, act.CrRNAs...),
		Receivers: append(one.Receivers, act.Receivers...),
		Screening: append(one.Screening, act.Screening...),
		Genomes: []model.Genome{
			{SelectionName: "albus", GenomeID: "bfi_albus", FragmentID: "seq_albus"},
			{SelectionName: "M145", GenomeID: "bfi_m145", FragmentID: "seq_m145"},
		},
		Locations:     map[int]string{1: "A01"},
		ControlStrain: "M145",
		ControlWell:   "G12",
	}
}

var _ = Describe("Assemble", func() {
	It("builds a cluster and the control", func() {
		res, err := assembler.Assemble(inputs())
		Expect(err).ToNot(HaveOccurred())
		Expect(res).To(HaveLen(2))
		Expect(res[0]).To(Equal(model.Construct{
			Name:         "CLC001",
			BGC:          "001",
			GRNAUp:       "001_gU",
			GRNADown:     "001_gD",
			Strain:       "bfi_albus",
			DNAFragment:  "seq_albus",
			RecPrimerU48: "001_r48",
			RecPrimerD45: "001_r45",
			RecAsmU48:    "001_a48",
			RecAsmD45:    "001_a45",
			ScrPrimerF:   "001_cf",
			ScrPrimerR:   "001_cr",
			Well96:       "A01",
		}))
		Expect(res[1].Name).To(Equal("CLCact_188"))
		Expect(res[1].BGC).To(Equal("act"))
		Expect(res[1].Well96).To(Equal("G12"))
		Expect(res[1].Strain).To(Equal("bfi_m145"))
	})

	It("fails on a missing part without partial output", func() {
		in := inputs()
		in.Screening = in.Screening[1:]
		res, err := assembler.Assemble(in)
		Expect(res).To(BeNil())
		Expect(errs.Is(err, errs.LookupError)).To(BeTrue())
		Expect(err.Error()).To(Equal("Cannot find screening primer F for cluster 001"))
	})

	It("fails when a cluster inside the range has no parts", func() {
		in := inputs()
		three := parts("003", "CLC003")
		in.CrRNAs = append(in.CrRNAs, three.CrRNAs...)
		in.Locations[3] = "A03"
		_, err := assembler.Assemble(in)
		Expect(err).To(MatchError("Cannot find crRNA D for cluster 002"))
	})

	It("fails without a destination well", func() {
		in := inputs()
		in.Locations = nil
		_, err := assembler.Assemble(in)
		Expect(err).To(MatchError("Cannot find 96_well_formatted for cluster 001"))
	})
})
