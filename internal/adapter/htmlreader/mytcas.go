package htmlreader

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

const (
	logoSelector = "img[src*='assets.mytcas.com/i/logo']"
	feeLabel     = "ค่าใช้จ่าย"
	campusLabel  = "วิทยาเขต"
)

// MyTCASReader reads program fields from a rendered mytcas.com detail page.
type MyTCASReader struct {
	doc *goquery.Document
}

var _ repository.PageFieldReader = (*MyTCASReader)(nil)

// New wraps an already parsed document.
func New(doc *goquery.Document) *MyTCASReader {
	return &MyTCASReader{doc: doc}
}

// FromHTML parses page HTML.
func FromHTML(html string) (*MyTCASReader, error) {
	return FromReader(strings.NewReader(html))
}

// FromReader parses page HTML from r.
func FromReader(r io.Reader) (*MyTCASReader, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return New(doc), nil
}

// InstitutionName is the alt text of the university logo.
func (r *MyTCASReader) InstitutionName() entity.Text {
	alt, ok := r.doc.Find(logoSelector).First().Attr("alt")
	if !ok {
		return entity.None()
	}
	return entity.Some(clean(alt))
}

// ProgramName is the first definition on the page.
func (r *MyTCASReader) ProgramName() entity.Text {
	dd := r.doc.Find("dd").First()
	if dd.Length() == 0 {
		return entity.None()
	}
	return entity.Some(clean(dd.Text()))
}

func (r *MyTCASReader) Campus() entity.Text {
	return r.definition(campusLabel)
}

func (r *MyTCASReader) TuitionFee() entity.Text {
	return r.definition(feeLabel)
}

// definition returns the dd that follows the dt whose whole text is label.
func (r *MyTCASReader) definition(label string) entity.Text {
	var value entity.Text
	r.doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if clean(dt.Text()) != label {
			return true
		}
		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			dd = dt.NextAllFiltered("dd").First()
		}
		if dd.Length() > 0 {
			value = entity.Some(clean(dd.Text()))
		}
		return false
	})
	return value
}

// clean NFC-normalizes text and collapses runs of whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
