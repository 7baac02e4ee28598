package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
)

const (
	declarationText     = "اني الموقع ادناه (..................................................)  اقر بان البضائع الدرجة تفاصيلها في قوائم هذا الجرد استلمتها من شركة الميسرللتجارة العامة المحدودة المسؤولية واتعهد بتسديد قيمتها الى قسم الحسابات وحسب سعر البيع المعتمد في الشركة"
	declarantSignature  = "اسم وتوقيع صاحب الاقرار"
	inventorySignature  = "اسم وتوقيع القائم بالجرد"
	signatureLine       = "_______________"
	signatureLabelLine  = "Signature: _______________"
	signaturePlainLabel = "Signature"
)

var teamSignatures = []string{"Warehouse Team", "Sales Team", "Control Team"}

// Report is one export of the session.
type Report struct {
	Title         string
	ReferenceCode string
	Items         []internal.ScannedItem
	Date          time.Time
	// LogoDataURI is an optional data: URI shown above the title.
	LogoDataURI string
}

// NewReport builds a report whose title carries the cleaned reference code.
func NewReport(warehouse, ref string, items []internal.ScannedItem, now time.Time) Report {
	ref = CleanReferenceCode(ref)
	return Report{
		Title:         DisplayTitle(warehouse, ref),
		ReferenceCode: ref,
		Items:         items,
		Date:          now,
	}
}

// UseAlternateSignatureBlock is true when a reference code was supplied.
func (r Report) UseAlternateSignatureBlock() bool {
	return strings.TrimSpace(r.ReferenceCode) != ""
}

func (r Report) Summary() string {
	return fmt.Sprintf("Date: %s | Total Items: %d", FormatTime(r.Date), len(r.Items))
}

// SignatureBlock is the footer of a report.
type SignatureBlock struct {
	RightToLeft bool
	Declaration string
	Boxes       []SignatureBox
}

type SignatureBox struct {
	Title string
	Line  string
}

func Signatures(alternate bool) SignatureBlock {
	if alternate {
		return SignatureBlock{
			RightToLeft: true,
			Declaration: declarationText,
			Boxes: []SignatureBox{
				{Title: declarantSignature},
				{Title: inventorySignature},
			},
		}
	}
	boxes := make([]SignatureBox, 0, len(teamSignatures))
	for _, team := range teamSignatures {
		boxes = append(boxes, SignatureBox{Title: team, Line: signaturePlainLabel})
	}
	return SignatureBlock{Boxes: boxes}
}
