package filler_test

import (
	"context"

	"github.com/attilauslu/oligocraft/internal/ent/filler"
	"github.com/attilauslu/oligocraft/internal/ent/registry"
	"github.com/attilauslu/oligocraft/internal/io/memio"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/model"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var stock = filler.Stock{
	CrRNAs: []model.CrRNA{
		{Well: "A1", ExternalID: "seq_g1", UG: "2.5"},
		{Well: "A2", ExternalID: "seq_g2", UG: "2"},
	},
	Receivers: []model.Receiver{
		{Well: "A01", ExternalID: "seq_r1", UL: "50"},
	},
	Screening: []model.Screening{
		{Well: "A3", ExternalID: "seq_s1", UL: "40"},
		{Well: "A4", ExternalID: "seq_s2", UL: "40"},
	},
}

var _ = Describe("Filler", func() {
	Describe("Resolve", func() {
		It("accepts a plate of the order", func() {
			k, err := filler.Resolve("PlateA7_REC", "7")
			Expect(err).ToNot(HaveOccurred())
			Expect(k).To(Equal(filler.Receiver))
		})

		It("rejects a plate of another order", func() {
			_, err := filler.Resolve("PlateA7_REC", "8")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("order number 8"))
		})

		It("does not confuse order 7 with order 71", func() {
			_, err := filler.Resolve("CLC_PlateA71_REC", "7")
			Expect(err).To(HaveOccurred())
		})

		It("rejects unknown suffixes", func() {
			_, err := filler.Resolve("CLC_PlateA7_DNA", "7")
			Expect(err).To(MatchError(
				"Are you sure you uploaded the correct plate? CLC_PlateA7_DNA " +
					"should end with _REC, _SCR or _crRNA",
			))
		})
	})

	Describe("Transfers", func() {
		It("matches canonical wells and drops empty ones", func() {
			p := registry.Plate{Name: "CLC_PlateA7_crRNA", Wells: map[string]registry.Well{
				"A01": {ID: "con_1"},
				"A02": {ID: "con_2"},
				"B01": {ID: "con_3"},
			}}
			ts, err := filler.Transfers(p, filler.CrRNA, stock)
			Expect(err).ToNot(HaveOccurred())
			Expect(ts).To(Equal([]registry.Transfer{
				{DestinationID: "con_1", SourceID: "seq_g1", Quantity: 2.5, Units: "ug"},
				{DestinationID: "con_2", SourceID: "seq_g2", Quantity: 2, Units: "ug"},
			}))
		})

		It("uses microliters for primers", func() {
			p := registry.Plate{Wells: map[string]registry.Well{"A1": {ID: "con_1"}}}
			ts, err := filler.Transfers(p, filler.Receiver, stock)
			Expect(err).ToNot(HaveOccurred())
			Expect(ts).To(HaveLen(1))
			Expect(ts[0].Units).To(Equal("uL"))
		})

		It("rejects a bad quantity", func() {
			s := filler.Stock{CrRNAs: []model.CrRNA{{Well: "A1", ExternalID: "x", UG: "lots"}}}
			p := registry.Plate{Wells: map[string]registry.Well{"A1": {ID: "con_1"}}}
			_, err := filler.Transfers(p, filler.CrRNA, s)
			Expect(errs.Is(err, errs.ParseError)).To(BeTrue())
		})
	})

	Describe("Fill", func() {
		var (
			ctx context.Context
			mem *memio.Memory
		)

		BeforeEach(func() {
			ctx = context.Background()
			mem = memio.New()
		})

		It("fills all three plates", func() {
			ids := []string{
				mem.AddPlate("CLC_PlateA7_crRNA", "A1", "A2"),
				mem.AddPlate("CLC_PlateB7_REC", "A1"),
				mem.AddPlate("CLC_PlateC7_SCR", "A3", "A4", "A5"),
			}
			Expect(filler.Fill(ctx, mem, ids, "7", stock)).To(Succeed())
			Expect(mem.Transfers()).To(HaveLen(5))
		})

		It("requires one plate of each kind before transferring", func() {
			ids := []string{
				mem.AddPlate("CLC_PlateA7_crRNA", "A1"),
				mem.AddPlate("CLC_PlateB7_REC", "A1"),
				mem.AddPlate("CLC_PlateC7_REC", "A1"),
			}
			err := filler.Fill(ctx, mem, ids, "7", stock)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix("Have you uploaded all 3 plates"))
			Expect(err.Error()).To(ContainSubstring("CLC_PlateC7_REC"))
			Expect(mem.Transfers()).To(BeEmpty())
		})
	})
})
