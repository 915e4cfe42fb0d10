package fetch_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/attilauslu/oligocraft/internal/ent/fetch"
	"github.com/attilauslu/oligocraft/internal/ent/loader"
	"github.com/attilauslu/oligocraft/internal/io/memio"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Fetch", func() {
	var (
		ctx   context.Context
		mem   *memio.Memory
		dir   string
		files loader.Files
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		mem = memio.New()
		dir, err = os.MkdirTemp("", "oligocraft-fetch")
		Expect(err).ToNot(HaveOccurred())
		files = loader.NewFiles(filepath.Join(dir, "external"))
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("downloads a file to the path of its role", func() {
		id := mem.AddFile("113_195_crRNA_metadata_2025", "meta.csv", []byte("a,b\n"))
		role, err := fetch.Download(ctx, mem, id, files)
		Expect(err).ToNot(HaveOccurred())
		Expect(role).To(Equal(loader.CrRNAMeta))
		data, err := os.ReadFile(files[loader.CrRNAMeta])
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("a,b\n"))
	})

	It("rejects files that are not CSV", func() {
		id := mem.AddFile("crRNA_metadata", "meta.xlsx", nil)
		_, err := fetch.Download(ctx, mem, id, files)
		Expect(err).To(MatchError("Are you sure meta.xlsx has the correct format?"))
	})

	It("rejects unknown entity names", func() {
		id := mem.AddFile("primers", "primers.csv", nil)
		_, err := fetch.Download(ctx, mem, id, files)
		Expect(errs.Is(err, errs.LookupError)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("Entitiy name: primers. File: primers.csv"))
	})

	It("lists missing files and removes existing ones", func() {
		err := fetch.CheckAll(files)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(HavePrefix("Missing files: ["))

		Expect(os.MkdirAll(filepath.Join(dir, "external"), 0755)).To(Succeed())
		for _, p := range files.Paths() {
			Expect(os.WriteFile(p, []byte("x\n"), 0644)).To(Succeed())
		}
		Expect(fetch.CheckAll(files)).To(Succeed())

		Expect(fetch.Remove(files.Paths()...)).To(Succeed())
		Expect(fetch.CheckAll(files)).ToNot(Succeed())
		Expect(fetch.Remove(files.Paths()...)).To(Succeed())
	})
})
