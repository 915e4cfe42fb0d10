package config_test

import (
	"path/filepath"

	. "github.com/attilauslu/oligocraft/pkg/config"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("has defaults", func() {
		cfg := New()
		Expect(cfg.Mode).To(Equal(ModeTest))
		Expect(cfg.ControlWell).To(Equal("G12"))
		Expect(cfg.ControlStrain).To(Equal("Streptomyces coelicolor M145"))
		Expect(cfg.OnlyCPrimers).To(BeTrue())
		Expect(cfg.Registration()).To(BeEmpty())
	})

	It("places working dirs inside input dir", func() {
		cfg := New(OptInputDir("/tmp/oc"))
		Expect(cfg.DownloadDir).To(Equal(filepath.Join("/tmp/oc", "external")))
		Expect(cfg.ProcessedDir).To(Equal(filepath.Join("/tmp/oc", "processed")))
		Expect(cfg.KVDir).To(Equal(filepath.Join("/tmp/oc", "registry")))
		Expect(cfg.Blob.Dir).To(Equal(filepath.Join("/tmp/oc", "blobs")))
	})

	It("uses registry only in production", func() {
		cfg := New(OptRegistryID("src_1"), OptMode(ModeProduction))
		Expect(cfg.Registration()).To(Equal("src_1"))
		cfg = New(OptRegistryID("src_1"))
		Expect(cfg.Registration()).To(BeEmpty())
	})

	It("parses modes", func() {
		m, err := NewMode("Production")
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(ModeProduction))
		Expect(m.String()).To(Equal("production"))
		_, err = NewMode("staging")
		Expect(err).To(HaveOccurred())
	})

	It("trims benchling URL", func() {
		cfg := New(OptBenchling("https://x.benchling.com/", "key"))
		Expect(cfg.Benchling.URL).To(Equal("https://x.benchling.com"))
	})
})
