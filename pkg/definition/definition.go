package definition

import "github.com/goliatone/go-formtree/pkg/element"

// Definition is a complete form: metadata plus its ordered element tree.
type Definition struct {
	ID          string            `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Elements    []element.Element `json:"elements" yaml:"elements"`
}

// Key returns the identifier a Store files the definition under: the id when
// present, otherwise the name.
func (d Definition) Key() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

// Flatten returns the flattened element sequence.
func (d Definition) Flatten() []element.Element {
	return element.Flatten(d.Elements)
}

// IsInformational reports whether the form collects no input.
func (d Definition) IsInformational() bool {
	return element.IsInformational(d.Elements)
}
