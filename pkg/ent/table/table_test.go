package table_test

import (
	"bytes"
	"strings"

	. "github.com/attilauslu/oligocraft/pkg/ent/table"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func mustRead(s string) *Table {
	t, err := ReadCSV(strings.NewReader(s))
	Expect(err).ToNot(HaveOccurred())
	return t
}

var _ = Describe("Table", func() {
	Describe("ReadCSV", func() {
		It("reads header and rows, empty cells are NULL", func() {
			t := mustRead("a,b,c\n1,,3\n4,5,6\n")
			Expect(t.Header()).To(Equal([]string{"a", "b", "c"}))
			Expect(t.Len()).To(Equal(2))
			Expect(t.Row(0).IsNull("b")).To(BeTrue())
			Expect(t.Row(1).Value("b")).To(Equal("5"))
		})

		It("pads short rows and rejects long ones", func() {
			t := mustRead("a,b\n1\n")
			Expect(t.Row(0).IsNull("b")).To(BeTrue())

			_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("expected 2 fields"))
		})

		It("fails on an empty input", func() {
			_, err := ReadCSV(strings.NewReader(""))
			Expect(err).To(MatchError(ErrEmpty))
		})

		It("strips UTF-8 BOM", func() {
			t := mustRead("\xEF\xBB\xBFWell Position,x\nA1,1\n")
			Expect(t.Has("Well Position")).To(BeTrue())
		})

		It("normalizes micro sign and trailing spaces in headers", func() {
			t := mustRead("µg,Final Volume µL \n1,2\n")
			Expect(t.Has("μg")).To(BeTrue())
			Expect(t.Has("Final Volume µL")).To(BeTrue())
			Expect(t.Row(0).Value("Final Volume µL ")).To(Equal("2"))
		})
	})

	Describe("DropBlank", func() {
		It("drops only rows where every cell is NULL", func() {
			t := mustRead("a,b\n,\n1,\n,2\n,\n").DropBlank()
			Expect(t.Len()).To(Equal(2))
			Expect(t.Column("a")).To(Equal([]string{"1", ""}))
		})
	})

	Describe("Project and Rename", func() {
		It("keeps column order of the request", func() {
			t := mustRead("a,b,c\n1,2,3\n")
			p, err := t.Project("c", "a")
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Header()).To(Equal([]string{"c", "a"}))
			r := p.Rename(map[string]string{"c": "z"})
			Expect(r.Header()).To(Equal([]string{"z", "a"}))
			Expect(r.Row(0).Value("z")).To(Equal("3"))
		})

		It("fails when a column is missing", func() {
			t := mustRead("a\n1\n")
			_, err := t.Project("a", "b")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LeftMerge", func() {
		It("keeps every left row and fills NULLs", func() {
			l := mustRead("id,well\nx,A1\ny,A2\n")
			r := mustRead("rid,seq,well\nx,AC,B1\nx,GT,B2\n")
			m, err := l.LeftMerge(r, "id", "rid")
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Header()).To(Equal([]string{"id", "well", "rid", "seq", "well_y"}))
			Expect(m.Len()).To(Equal(3))
			Expect(m.Column("seq")).To(Equal([]string{"AC", "GT", ""}))
			Expect(m.Row(2).IsNull("rid")).To(BeTrue())
			Expect(m.Row(0).Value("well_y")).To(Equal("B1"))
		})

		It("collapses keys with the same name", func() {
			l := mustRead("id,a\nx,1\n")
			r := mustRead("id,b\nx,2\n")
			m, err := l.LeftMerge(r, "id", "id")
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Header()).To(Equal([]string{"id", "a", "b"}))
		})
	})

	Describe("WriteCSV", func() {
		It("writes NULLs as empty fields", func() {
			t := New("a", "b")
			t.Append(Row{"a": "1"})
			var buf bytes.Buffer
			Expect(t.WriteCSV(&buf)).To(Succeed())
			Expect(buf.String()).To(Equal("a,b\n1,\n"))
		})
	})
})
