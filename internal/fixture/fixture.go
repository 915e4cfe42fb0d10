// Package fixture provides a consistent set of input files for cluster 005
// and the actinorhodin control family, with plates of order 7. Tests of
// several packages share it.
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/loader"
	"github.com/attilauslu/oligocraft/internal/ent/plate"
)

// Order is the plate order number of the fixture.
const Order = "7"

// Spacers of the fixture crRNAs.
const (
	SpacerUp          = "ACGTACGTACGTACGTACGTA"
	SpacerDown        = "TTGCATTGCATTGCATTGCAT"
	ControlSpacerUp   = "GAATATGGGGCCACCCCCCAC"
	ControlSpacerDown = "GCCTTTGCTTGCCTGGGCCAA"
)

// Strain names.
const (
	Strain            = "Streptomyces albus J1074"
	StrainBenchling   = "Streptomyces albus J1074"
	Control           = "Streptomyces coelicolor M145"
	ControlBenchling  = "Streptomyces coelicolor A3(2) M145"
	ControlConstruct  = "CLCact_188"
	ClusterConstruct  = "CLC005"
	ClusterWell       = "B03"
	CrRNAPlateName    = "CLC_PlateA7_crRNA"
	ReceiverPlateName = "CLC_PlateB7_REC"
	ScreenPlateName   = "CLC_PlateC7_SCR"
)

// IDT returns the vendor notation of a crRNA with a DNA spacer.
func IDT(spacer string) string {
	var sb strings.Builder
	sb.WriteString(plate.Scaffold)
	for _, b := range plate.ToRNA(spacer) {
		sb.WriteString("r")
		sb.WriteRune(b)
	}
	sb.WriteString(" /AltR2/")
	return sb.String()
}

// CSV returns contents of the input files by role.
func CSV() map[loader.Role]string {
	return map[loader.Role]string{
		loader.CrRNAMeta: lines(
			"BGC_number,strain_name,crRNA_prefix,crRNA_strand,crRNA_loc,crRNA_id,crRNA,Well Position,Order ID",
			fmt.Sprintf("5,%s,U,+,1200,CLC005crRNAU1,%s,A1,7", Strain, SpacerUp),
			fmt.Sprintf("5,%s,D,-,44000,CLC005crRNAD1,%s,A2,7", Strain, SpacerDown),
			",,,,,CLCactcrRNAU188,,H1,7",
			",,,,,CLCactcrRNAD188,,H2,7",
			",,,,,,,,",
		),
		loader.CrRNASpec: lines(
			"Well Position,Sequence Name,Sequence,µg",
			"A1,CLC005crRNAU1,"+IDT(SpacerUp)+",2.5",
			"A2,CLC005crRNAD1,"+IDT(SpacerDown)+",2.5",
			"H1,CLCactcrRNAU188,"+IDT(ControlSpacerUp)+",2",
			"H2,CLCactcrRNAD188,"+IDT(ControlSpacerDown)+",2",
		),
		loader.ReceiverMeta: lines(
			"BGC_number,receiver_primer_id,crRNA_prefix,receiver_primer_seq,Well Position",
			"5,CLC005r48U,U,GATTACAGATTACAGATTACA,A1",
			"5,CLC005r45D,D,CCGGAACCGGAACCGGAACCG,A2",
		),
		loader.PrimersSpec: lines(
			"Well Position,Sequence Name,Sequence,Final Volume µL ",
			"A1,CLC005r48U,GATTACA GATTACA GATTACA,50",
			"A2,CLC005r45D,CCGGAACCGGAACCGGAACCG,50",
			"A3,CLC005CF,AAACCCGGGTTTAAACCCGGG,40",
			"A4,CLC005CR,TTTGGGCCCAAATTTGGGCCC,40",
			"H1,CLCact48R188,ACACACACACACACACACAC,50",
			"H2,CLCact45R188,GTGTGTGTGTGTGTGTGTGT,50",
			"H3,CLCactCF188,CATCATCATCATCATCATCA,40",
			"H4,CLCactCR188,TGATGATGATGATGATGATG,40",
		),
		loader.ScreeningMeta: lines(
			"BGC_num,locus tag,f_primer_name,f_primer_sequences(5-3),f_well_position,r_primer_name,r_primer_sequences(5-3),r_well_position",
			"5,CLC005_C,CLC005CF,AAACCCGGGTTTAAACCCGGG,A3,CLC005CR,TTTGGGCCCAAATTTGGGCCC,A4",
			"5,CLC005_A,CLC005AF,CCCCCCCCCCCCCCCCCCCC,B1,CLC005AR,GGGGGGGGGGGGGGGGGGGG,B2",
		),
		loader.Genomes: lines(
			"benchling_name,selection_name",
			StrainBenchling+","+Strain,
			`"`+ControlBenchling+`",`+Control,
		),
		loader.Locations: lines(
			"BGC_number,96_well_formatted",
			"5,"+ClusterWell,
			"5,C07",
			",D01",
		),
	}
}

// Write saves the input files into dir and returns their locations.
func Write(dir string) (loader.Files, error) {
	res := loader.NewFiles(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	for role, content := range CSV() {
		if err := os.WriteFile(res[role], []byte(content), 0644); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// WriteRole saves one input file as name inside dir and returns its path.
func WriteRole(dir, name string, role loader.Role) (string, error) {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(CSV()[role]), 0644)
	return path, err
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}
