package placeholder

import "github.com/goliatone/go-formtree/pkg/element"

// Reference records a placeholder found in the free text of an element.
type Reference struct {
	// Element is the name of the element whose text holds the placeholder.
	Element string `json:"element" yaml:"element"`
	// Target is the referenced element name.
	Target string `json:"target" yaml:"target"`
}

// References scans the free text of every element in the tree, nested
// children included, and returns the placeholders in document order.
func References(elements []element.Element) []Reference {
	var refs []Reference
	element.Walk(elements, func(el element.Element) bool {
		for _, text := range el.FreeText() {
			Scan(text, func(name string) {
				refs = append(refs, Reference{Element: el.Name, Target: name})
			})
		}
		return true
	})
	return refs
}

// Unresolved returns the references whose target does not name any element
// in the tree.
func Unresolved(elements []element.Element) []Reference {
	refs := References(elements)
	if len(refs) == 0 {
		return nil
	}

	known := make(map[string]struct{})
	for _, name := range element.Names(elements) {
		known[name] = struct{}{}
	}

	var out []Reference
	for _, ref := range refs {
		if _, ok := known[ref.Target]; !ok {
			out = append(out, ref)
		}
	}
	return out
}
