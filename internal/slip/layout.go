package slip

import (
	"fmt"

	"payslip/domain/payroll"
	"payslip/internal/shaping"
)

// DefaultTitle heads every slip unless configured otherwise.
const DefaultTitle = "شعبة المالية / جامعة ابن سينا للعلوم الطبية والصيدلانية"

// SignatureCaption closes the slip.
const SignatureCaption = "توقيع المدير المالي: __________________"

// LineKind says how a layout line is painted.
type LineKind int

const (
	KindText LineKind = iota
	KindRule
	KindGap
)

// Alignment values understood by the painter.
const (
	AlignCenter = "C"
	AlignRight  = "R"
	AlignLeft   = "L"
)

// Page geometry in millimetres.
const (
	RuleY      = 20.0
	RuleFromX  = 10.0
	RuleToX    = 200.0
	TitleSize  = 16.0
	BodySize   = 14.0
	FooterSize = 12.0
)

// RowFill is the grey shading behind salary rows.
var RowFill = [3]int{245, 245, 245}

// Line is one step of the fixed slip layout, top to bottom.
type Line struct {
	Kind   LineKind
	Text   string // logical order, as read from the record
	Shaped string // visual order, ready to paint
	Size   float64
	Height float64
	Align  string
	Fill   bool
}

// Layout computes the slip for rec without touching any font or PDF state.
func Layout(title string, rec payroll.Record) []Line {
	if title == "" {
		title = DefaultTitle
	}

	lines := []Line{
		text(title, TitleSize, 10, AlignCenter, false),
		{Kind: KindRule},
		gap(10),
		text(labelled(payroll.ColumnName, rec.Name()), BodySize, 8, AlignRight, false),
		text(labelled(payroll.ColumnID, rec.ID()), BodySize, 8, AlignRight, false),
		gap(5),
	}
	for _, c := range rec.Components() {
		lines = append(lines, text(labelled(c.Label, c.Value), BodySize, 10, AlignRight, true))
	}
	lines = append(lines,
		gap(20),
		text(SignatureCaption, FooterSize, 10, AlignLeft, false),
	)
	return lines
}

// TextLines filters the layout down to painted text, in order.
func TextLines(lines []Line) []Line {
	var out []Line
	for _, l := range lines {
		if l.Kind == KindText {
			out = append(out, l)
		}
	}
	return out
}

func labelled(label, value string) string {
	return fmt.Sprintf("%s : %s", label, value)
}

func text(s string, size, height float64, align string, fill bool) Line {
	return Line{
		Kind:   KindText,
		Text:   s,
		Shaped: shaping.Shape(s),
		Size:   size,
		Height: height,
		Align:  align,
		Fill:   fill,
	}
}

func gap(h float64) Line {
	return Line{Kind: KindGap, Height: h}
}
