package element

// Flatten normalises a tree into the sequence renderers and validators expect.
//
// Pages and sections are transparent: the container is emitted first, followed
// directly by its flattened children at the same level. The emitted container
// is a shallow copy with Elements cleared because its contents already follow
// it. Repeatable sets stay opaque: they are emitted once, as a shallow copy
// whose Elements hold the flattened template. Leaves are emitted unchanged.
//
// The input is never modified and Flatten(Flatten(x)) equals Flatten(x).
func Flatten(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, 0, len(elements))
	return appendFlattened(out, elements)
}

func appendFlattened(out []Element, elements []Element) []Element {
	for _, el := range elements {
		switch el.Type.Kind() {
		case KindPage, KindSection:
			container := el
			container.Elements = nil
			out = append(out, container)
			out = appendFlattened(out, el.Elements)
		case KindRepeatableSet:
			set := el
			set.Elements = Flatten(el.Elements)
			out = append(out, set)
		default:
			out = append(out, el)
		}
	}
	return out
}

// Fields returns the flattened sequence without page and section nodes, so
// only value-carrying elements (and repeatable sets as single entries) remain.
func Fields(elements []Element) []Element {
	flat := Flatten(elements)
	out := make([]Element, 0, len(flat))
	for _, el := range flat {
		switch el.Type.Kind() {
		case KindPage, KindSection:
			continue
		}
		out = append(out, el)
	}
	return out
}
