package element

import "sort"

// Type tags an Element with its variant. The set of known tags is closed; see
// Types for the full list.
type Type string

const (
	TypePage          Type = "page"
	TypeSection       Type = "section"
	TypeRepeatableSet Type = "repeatableSet"

	TypeHeading Type = "heading"
	TypeHTML    Type = "html"
	TypeImage   Type = "image"

	TypeText           Type = "text"
	TypeTextarea       Type = "textarea"
	TypeEmail          Type = "email"
	TypeNumber         Type = "number"
	TypeTelephone      Type = "telephone"
	TypeDate           Type = "date"
	TypeDateTime       Type = "datetime"
	TypeTime           Type = "time"
	TypeSelect         Type = "select"
	TypeRadio          Type = "radio"
	TypeCheckboxes     Type = "checkboxes"
	TypeBoolean        Type = "boolean"
	TypeAutocomplete   Type = "autocomplete"
	TypeFiles          Type = "files"
	TypeCamera         Type = "camera"
	TypeDraw           Type = "draw"
	TypeBarcodeScanner Type = "barcodeScanner"
	TypeLocation       Type = "location"
	TypeCalculation    Type = "calculation"
	TypeSummary        Type = "summary"
	TypeCaptcha        Type = "captcha"
)

// Kind groups element types by how the tree algorithms treat them.
type Kind int

const (
	KindUnknown Kind = iota
	KindPage
	KindSection
	KindRepeatableSet
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindSection:
		return "section"
	case KindRepeatableSet:
		return "repeatableSet"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

type typeInfo struct {
	kind          Kind
	informational bool
}

// typeTable is the single place a new element type must be registered.
var typeTable = map[Type]typeInfo{
	TypePage:          {kind: KindPage},
	TypeSection:       {kind: KindSection, informational: true},
	TypeRepeatableSet: {kind: KindRepeatableSet},

	TypeHeading: {kind: KindLeaf, informational: true},
	TypeHTML:    {kind: KindLeaf, informational: true},
	TypeImage:   {kind: KindLeaf, informational: true},

	TypeText:           {kind: KindLeaf},
	TypeTextarea:       {kind: KindLeaf},
	TypeEmail:          {kind: KindLeaf},
	TypeNumber:         {kind: KindLeaf},
	TypeTelephone:      {kind: KindLeaf},
	TypeDate:           {kind: KindLeaf},
	TypeDateTime:       {kind: KindLeaf},
	TypeTime:           {kind: KindLeaf},
	TypeSelect:         {kind: KindLeaf},
	TypeRadio:          {kind: KindLeaf},
	TypeCheckboxes:     {kind: KindLeaf},
	TypeBoolean:        {kind: KindLeaf},
	TypeAutocomplete:   {kind: KindLeaf},
	TypeFiles:          {kind: KindLeaf},
	TypeCamera:         {kind: KindLeaf},
	TypeDraw:           {kind: KindLeaf},
	TypeBarcodeScanner: {kind: KindLeaf},
	TypeLocation:       {kind: KindLeaf},
	TypeCalculation:    {kind: KindLeaf},
	TypeSummary:        {kind: KindLeaf},
	TypeCaptcha:        {kind: KindLeaf},
}

// Types returns every known element type sorted by tag.
func Types() []Type {
	out := make([]Type, 0, len(typeTable))
	for t := range typeTable {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid reports whether t is a known element type.
func (t Type) Valid() bool {
	_, ok := typeTable[t]
	return ok
}

// Kind reports how the tree algorithms treat t. Unknown tags return
// KindUnknown.
func (t Type) Kind() Kind {
	return typeTable[t].kind
}

// IsContainer reports whether elements of type t carry children.
func (t Type) IsContainer() bool {
	switch t.Kind() {
	case KindPage, KindSection, KindRepeatableSet:
		return true
	default:
		return false
	}
}

// IsInformational reports whether t displays content without collecting input
// (heading, html, image, section).
func (t Type) IsInformational() bool {
	return typeTable[t].informational
}

// Option is a single choice offered by select, radio, checkboxes, and
// autocomplete elements.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Element is a single node of a form definition. Containers (page, section,
// repeatableSet) hold their children in Elements; leaves leave it empty.
type Element struct {
	ID           string    `json:"id,omitempty" yaml:"id,omitempty"`
	Type         Type      `json:"type" yaml:"type"`
	Name         string    `json:"name" yaml:"name"`
	Label        string    `json:"label,omitempty" yaml:"label,omitempty"`
	Hint         string    `json:"hint,omitempty" yaml:"hint,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DefaultValue any       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Required     bool      `json:"required,omitempty" yaml:"required,omitempty"`
	ReadOnly     bool      `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Content      string    `json:"content,omitempty" yaml:"content,omitempty"`
	Source       string    `json:"source,omitempty" yaml:"source,omitempty"`
	Options      []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Elements     []Element `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// IsContainer reports whether the element's type carries children.
func (e Element) IsContainer() bool {
	return e.Type.IsContainer()
}

// FreeText returns the element's text fields that may embed placeholders or
// markup, in a stable order: label, hint, placeholder, content, and the
// default value when it is a string. Empty fields are skipped.
func (e Element) FreeText() []string {
	var out []string
	for _, value := range []string{e.Label, e.Hint, e.Placeholder, e.Content} {
		if value != "" {
			out = append(out, value)
		}
	}
	if text, ok := e.DefaultValue.(string); ok && text != "" {
		out = append(out, text)
	}
	return out
}
