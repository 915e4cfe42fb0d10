package model

import "time"

// Model is the archive schema manager.
type Model interface {
	// Migrate creates archive tables.
	Migrate() error
}

// ArchivedRun is one successful pipeline run.
type ArchivedRun struct {
	// ID is a random UUID of the run.
	ID string `gorm:"column:id;type:uuid;primary_key;auto_increment:false"`

	// Order is the plate order number.
	Order string `gorm:"column:order_number;type:varchar(50);index:run_order"`

	// Mode is 'test' or 'production'.
	Mode string `gorm:"column:mode;type:varchar(20)"`

	// ManifestID is the registry ID of the manifest entity.
	ManifestID string `gorm:"column:manifest_id;type:varchar(100)"`

	// CreatedAt is the time the run finished.
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp without time zone"`
}

// ArchivedConstruct is a BAC construct of an archived run.
type ArchivedConstruct struct {
	RunID        string `gorm:"column:run_id;type:uuid;index:construct_run"`
	Name         string `gorm:"column:name;type:varchar(100);index:construct_name"`
	BGC          string `gorm:"column:bgc;type:varchar(10)"`
	ExternalID   string `gorm:"column:external_id;type:varchar(100)"`
	Well96       string `gorm:"column:well_96;type:varchar(5)"`
	GRNAUp       string `gorm:"column:grna_up;type:varchar(100)"`
	GRNADown     string `gorm:"column:grna_down;type:varchar(100)"`
	Strain       string `gorm:"column:strain;type:varchar(100)"`
	DNAFragment  string `gorm:"column:dna_fragment;type:varchar(100)"`
	RecPrimerU48 string `gorm:"column:rec_primer_u_48;type:varchar(100)"`
	RecPrimerD45 string `gorm:"column:rec_primer_d_45;type:varchar(100)"`
	RecAsmU48    string `gorm:"column:rec_asm_u_48;type:varchar(100)"`
	RecAsmD45    string `gorm:"column:rec_asm_d_45;type:varchar(100)"`
	ScrPrimerF   string `gorm:"column:scr_primer_f;type:varchar(100)"`
	ScrPrimerR   string `gorm:"column:scr_primer_r;type:varchar(100)"`
}

// ArchivedPart is a registered oligo of an archived run.
type ArchivedPart struct {
	RunID string `gorm:"column:run_id;type:uuid;index:part_run"`

	// Type is 'crRNA', 'receiver', 'assembly', 'screening' or 'fragment'.
	Type string `gorm:"column:type;type:varchar(20)"`

	Name       string `gorm:"column:name;type:varchar(100);index:part_name"`
	ExternalID string `gorm:"column:external_id;type:varchar(100)"`
	BGC        string `gorm:"column:bgc;type:varchar(10)"`
	Well       string `gorm:"column:well;type:varchar(5)"`
	Sequence   string `gorm:"column:sequence"`
}
