package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Mode selects between the test and production field sets of the
// registry schemas.
type Mode int

const (
	// ModeTest creates entities without registering them, receiver
	// assemblies and constructs are created as DNA sequences, and notebook
	// rows carry only the construct ID.
	ModeTest Mode = iota

	// ModeProduction registers entities with NEW_IDS naming strategy and
	// uses custom entity schemas.
	ModeProduction
)

// NewMode converts a string to Mode.
func NewMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "test":
		return ModeTest, nil
	case "prod", "production":
		return ModeProduction, nil
	default:
		return ModeTest, fmt.Errorf("unknown mode %q", s)
	}
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeProduction {
		return "production"
	}
	return "test"
}

// Backend selects the implementation of the entity registry.
type Backend string

const (
	// BackendBenchling talks to Benchling REST API.
	BackendBenchling Backend = "benchling"

	// BackendLocal keeps entities in a local key-value store.
	BackendLocal Backend = "local"

	// BackendMemory keeps entities in memory for the duration of a process.
	BackendMemory Backend = "memory"
)

// Folders contains IDs of registry folders.
type Folders struct {
	CrRNA      string
	Primers    string
	Assemblies string
	CLCStrains string
	NBCStrains string
	Fragments  string
	BACs       string
	CSV        string
}

// Schemas contains IDs of registry schemas.
type Schemas struct {
	GRNA     string
	Primer   string
	Receiver string
	Strain   string
	Fragment string
	BAC      string
	CSV      string
	Result   string
}

// Backbones contains registry IDs of pBE48 and pBE45 backbones and their
// primers.
type Backbones struct {
	Primer48  string
	Plasmid48 string
	Primer45  string
	Plasmid45 string
}

// Benchling contains settings of the REST client.
type Benchling struct {
	// URL is the tenant URL, for example https://tenant.benchling.com.
	URL string

	// APIKey is used for basic authentication.
	APIKey string

	// PollInterval is the delay between checks of an asynchronous task.
	PollInterval time.Duration

	// Timeout limits a single HTTP request.
	Timeout time.Duration
}

// Blob contains settings of the blob store used by the local registry.
type Blob struct {
	// Driver is 'fs' or 's3'.
	Driver    string
	Dir       string
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// PgDB contains settings of the archive database.
type PgDB struct {
	Host string
	User string
	Pass string
	DB   string
}

// Config is a struct that holds configuration parameters for the package.
type Config struct {
	// Mode is test or production.
	Mode Mode

	// Backend is the registry implementation.
	Backend Backend

	// InputDir is the root for downloaded and processed files and the
	// local key-value store.
	InputDir string

	// DownloadDir keeps downloaded CSV files of a run.
	DownloadDir string

	// ProcessedDir keeps the manifest file of a run.
	ProcessedDir string

	// KVDir is a directory of the local registry.
	KVDir string

	// RegistryID is the ID of the registry used in production mode.
	RegistryID string

	// ProjectID is the project of notebook results.
	ProjectID string

	Folders   Folders
	Schemas   Schemas
	Backbones Backbones

	// ControlStrain is the strain name of the control construct.
	ControlStrain string

	// ControlWell is the destination well of the control construct.
	ControlWell string

	// OnlyCPrimers keeps only screening primers of locus tags that end
	// with 'C'.
	OnlyCPrimers bool

	Benchling Benchling

	// ListenAddr is the address of the webhook server.
	ListenAddr string

	// WebhookSecret verifies webhook signatures.
	WebhookSecret string

	Blob Blob

	// Archive enables saving of successful runs to PostgreSQL.
	Archive bool

	PgDB PgDB
}

// Option type allows to change settings for Config.
type Option func(*Config)

// OptMode sets test or production mode.
func OptMode(m Mode) Option {
	return func(cfg *Config) {
		cfg.Mode = m
	}
}

// OptBackend sets registry backend.
func OptBackend(b Backend) Option {
	return func(cfg *Config) {
		cfg.Backend = b
	}
}

// OptInputDir sets a root directory for working files. Download,
// processed and key-value directories are placed inside.
func OptInputDir(d string) Option {
	return func(cfg *Config) {
		cfg.InputDir = d
		cfg.DownloadDir = filepath.Join(d, "external")
		cfg.ProcessedDir = filepath.Join(d, "processed")
		cfg.KVDir = filepath.Join(d, "registry")
		cfg.Blob.Dir = filepath.Join(d, "blobs")
	}
}

// OptRegistryID sets registry ID for production mode.
func OptRegistryID(id string) Option {
	return func(cfg *Config) {
		cfg.RegistryID = id
	}
}

// OptProjectID sets project of notebook results.
func OptProjectID(id string) Option {
	return func(cfg *Config) {
		cfg.ProjectID = id
	}
}

// OptFolders sets registry folders.
func OptFolders(f Folders) Option {
	return func(cfg *Config) {
		cfg.Folders = f
	}
}

// OptSchemas sets registry schemas.
func OptSchemas(s Schemas) Option {
	return func(cfg *Config) {
		cfg.Schemas = s
	}
}

// OptBackbones sets backbone plasmids and primers.
func OptBackbones(b Backbones) Option {
	return func(cfg *Config) {
		cfg.Backbones = b
	}
}

// OptControl sets strain and well of the control construct.
func OptControl(strain, well string) Option {
	return func(cfg *Config) {
		if strain != "" {
			cfg.ControlStrain = strain
		}
		if well != "" {
			cfg.ControlWell = well
		}
	}
}

// OptOnlyCPrimers sets filtering of screening primers.
func OptOnlyCPrimers(b bool) Option {
	return func(cfg *Config) {
		cfg.OnlyCPrimers = b
	}
}

// OptBenchling sets URL and API key of Benchling tenant.
func OptBenchling(url, apiKey string) Option {
	return func(cfg *Config) {
		cfg.Benchling.URL = strings.TrimRight(url, "/")
		cfg.Benchling.APIKey = apiKey
	}
}

// OptPollInterval sets delay between checks of asynchronous tasks.
func OptPollInterval(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.Benchling.PollInterval = d
	}
}

// OptWebhook sets listen address and signing secret of the webhook server.
func OptWebhook(addr, secret string) Option {
	return func(cfg *Config) {
		if addr != "" {
			cfg.ListenAddr = addr
		}
		cfg.WebhookSecret = secret
	}
}

// OptBlob sets blob store settings.
func OptBlob(b Blob) Option {
	return func(cfg *Config) {
		if b.Dir == "" {
			b.Dir = cfg.Blob.Dir
		}
		cfg.Blob = b
	}
}

// OptArchive enables archive database.
func OptArchive(db PgDB) Option {
	return func(cfg *Config) {
		cfg.Archive = true
		cfg.PgDB = db
	}
}

// New creates a Config with defaults modified by options.
func New(opts ...Option) Config {
	inpDir, err := os.UserCacheDir()
	if err != nil {
		inpDir = os.TempDir()
	}
	inpDir = filepath.Join(inpDir, "oligocraft")

	res := Config{
		Mode:          ModeTest,
		Backend:       BackendBenchling,
		ControlStrain: "Streptomyces coelicolor M145",
		ControlWell:   "G12",
		OnlyCPrimers:  true,
		Benchling: Benchling{
			PollInterval: 2 * time.Second,
			Timeout:      30 * time.Second,
		},
		ListenAddr: ":8080",
		Blob:       Blob{Driver: "fs", Region: "us-east-1"},
		PgDB: PgDB{
			Host: "0.0.0.0",
			User: "postgres",
			Pass: "postgres",
			DB:   "oligocraft",
		},
	}
	OptInputDir(inpDir)(&res)

	for _, opt := range opts {
		opt(&res)
	}

	return res
}

// Registration returns registry ID used for entity creation. It is empty
// in test mode.
func (cfg Config) Registration() string {
	if cfg.Mode == ModeProduction {
		return cfg.RegistryID
	}
	return ""
}
