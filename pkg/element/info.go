package element

// IsInformational reports whether every element in the tree, nested children
// included, displays content without collecting input. Only heading, html,
// image, and section elements qualify, so a tree holding a page or a
// repeatable set is never informational. The walk stops at the first element
// that collects input. An empty tree is informational.
func IsInformational(elements []Element) bool {
	return classify(elements, nil)
}

// classify runs the informational walk, calling visit (when set) for each
// element inspected.
func classify(elements []Element, visit func(Element)) bool {
	return Walk(elements, func(el Element) bool {
		if visit != nil {
			visit(el)
		}
		return el.Type.IsInformational()
	})
}
