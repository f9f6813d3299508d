package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// DocumentWriter turns laid-out pages into one printable document.
type DocumentWriter interface {
	Write(w io.Writer, pages []Page) error
}

// PDFWriter writes pages with gofpdf. Every page keeps its exact physical size:
// zero margins, no automatic page breaks, no scaling, no rotation.
type PDFWriter struct{}

var _ DocumentWriter = PDFWriter{}

// Write assembles pages into a single PDF.
func (PDFWriter) Write(w io.Writer, pages []Page) error {
	if len(pages) == 0 {
		return errors.New("no pages to write")
	}
	first := pages[0]
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.WidthPt, Ht: first.HeightPt},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.WidthPt, Ht: page.HeightPt})
		if page.Background != nil {
			registerImage(pdf, page.Background)
			pdf.ImageOptions(page.Background.Name, 0, 0, page.WidthPt, page.HeightPt, false,
				gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		}
		for _, el := range page.Elements {
			switch el.Kind {
			case ElementText:
				drawText(pdf, page, el, tr)
			case ElementImage:
				drawImage(pdf, page, el)
			}
		}
		if pdf.Err() {
			return fmt.Errorf("render page %d: %w", pdf.PageNo(), pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// gofpdf measures y from the top edge; elements measure it from the bottom.
func drawText(pdf *gofpdf.Fpdf, page Page, el Element, tr func(string) string) {
	pdf.SetFont(el.FontFamily, el.FontStyle, el.FontSize)
	pdf.SetTextColor(el.Color.R, el.Color.G, el.Color.B)
	x, y := el.X, page.HeightPt-el.Y
	if el.RotationDeg != 0 {
		pdf.TransformBegin()
		pdf.TransformRotate(el.RotationDeg, x, y)
		pdf.Text(x, y, tr(el.Text))
		pdf.TransformEnd()
		return
	}
	pdf.Text(x, y, tr(el.Text))
}

func drawImage(pdf *gofpdf.Fpdf, page Page, el Element) {
	registerImage(pdf, el.Image)
	opacity := el.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	blend := el.BlendMode
	if blend == "" {
		blend = "Normal"
	}
	pdf.SetAlpha(opacity, blend)
	top := page.HeightPt - (el.Y + el.Height)
	pdf.ImageOptions(el.Image.Name, el.X, top, el.Width, el.Height, false,
		gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetAlpha(1, "Normal")
}

func registerImage(pdf *gofpdf.Fpdf, img *ImageData) {
	if pdf.GetImageInfo(img.Name) != nil {
		return
	}
	pdf.RegisterImageOptionsReader(img.Name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.PNG))
}
