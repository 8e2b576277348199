// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ElementKind is the kind of a design element
type ElementKind string

// Element kinds understood by the rule evaluator
const (
	KindText  ElementKind = "text"
	KindShape ElementKind = "shape"
	KindImage ElementKind = "image"
	KindLogo  ElementKind = "logo"
)

// Supported reports whether the evaluator knows how to check this kind
func (k ElementKind) Supported() bool {
	switch k {
	case KindText, KindShape, KindImage, KindLogo:
		return true
	default:
		return false
	}
}

// Element is one node of a design document. Pointer fields are nil when the
// host did not report the property.
type Element struct {
	ID              string      `json:"id" yaml:"id"`
	Kind            ElementKind `json:"type" yaml:"type"`
	Fill            string      `json:"fill,omitempty" yaml:"fill,omitempty"`
	TextColor       string      `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	BackgroundColor string      `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	FontFamily      string      `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontSize        *float64    `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontWeight      *int        `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	Text            string      `json:"text,omitempty" yaml:"text,omitempty"`
	Width           *float64    `json:"width,omitempty" yaml:"width,omitempty"`
	Height          *float64    `json:"height,omitempty" yaml:"height,omitempty"`
	Margin          *float64    `json:"margin,omitempty" yaml:"margin,omitempty"`
}

// Document is a snapshot of the host document as read by the editor bridge
type Document struct {
	ID       string    `json:"id" yaml:"id"`
	BrandID  string    `json:"brandId,omitempty" yaml:"brandId,omitempty"`
	Industry string    `json:"industry,omitempty" yaml:"industry,omitempty"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// FindElement returns the element with the given ID, or nil
func (d *Document) FindElement(id string) *Element {
	if d == nil {
		return nil
	}
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			return &d.Elements[i]
		}
	}
	return nil
}
