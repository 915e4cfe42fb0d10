package plate_test

import (
	"github.com/attilauslu/oligocraft/internal/ent/plate"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/attilauslu/oligocraft/pkg/ent/table"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Plate", func() {
	const idt = "/AltR1/rUrArA rUrUrU rCrUrA rCrUrA rArGrU rGrUrA rGrArU ATCG /AltR2/"

	Describe("sequence cleaning", func() {
		It("removes scaffold for the short form", func() {
			Expect(plate.CleanShort(idt)).To(Equal("ATCG"))
			Expect(plate.ToRNA(plate.CleanShort(idt))).To(Equal("AUCG"))
		})

		It("keeps scaffold bases for the vendor form", func() {
			Expect(plate.CleanIDT(idt)).To(Equal("UAAUUUCUACUAAGUGUAGAUATCG"))
		})

		It("converts DNA to RNA preserving case", func() {
			Expect(plate.ToRNA("ATCGtt")).To(Equal("AUCGuu"))
		})

		It("removes spaces from primers", func() {
			Expect(plate.CleanPrimer("ACG TTA C")).To(Equal("ACGTTAC"))
		})
	})

	Describe("CanonicalWell", func() {
		It("pads columns and upper-cases rows", func() {
			Expect(plate.CanonicalWell("a1")).To(Equal("A01"))
			Expect(plate.CanonicalWell("B12")).To(Equal("B12"))
			Expect(plate.CanonicalWell("C05")).To(Equal("C05"))
			Expect(plate.CanonicalWell("")).To(Equal(""))
		})
	})

	Describe("Normalize", func() {
		var t *table.Table

		BeforeEach(func() {
			t = table.New("Well Position", "Sequence Name", "Sequence", "µg", "Extra")
			t.AppendValues("A1", "CLC005crRNAU1", "ACGT", "2.5", "x")
		})

		It("keeps and renames columns", func() {
			res, err := plate.Normalize(t,
				[]string{"Well Position", "Sequence Name"},
				map[string]string{"Well Position": "well", "Sequence Name": "id"},
			)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Header()).To(Equal([]string{"well", "id"}))
			Expect(res.Row(0).Value("id")).To(Equal("CLC005crRNAU1"))
		})

		It("fails on unknown columns", func() {
			_, err := plate.Normalize(t, []string{"Volume"}, nil)
			Expect(errs.Is(err, errs.ConfigurationError)).To(BeTrue())
			Expect(errs.Fatal(err)).To(BeTrue())
		})
	})
})
