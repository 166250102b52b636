package element

// Walk visits every element depth-first in document order, containers before
// their children. It stops when fn returns false and reports whether every
// element was visited.
func Walk(elements []Element, fn func(Element) bool) bool {
	for _, el := range elements {
		if !fn(el) {
			return false
		}
		if len(el.Elements) > 0 && !Walk(el.Elements, fn) {
			return false
		}
	}
	return true
}

// Find returns the first element named name, searching nested containers.
func Find(elements []Element, name string) (Element, bool) {
	var (
		found Element
		ok    bool
	)
	Walk(elements, func(el Element) bool {
		if el.Name == name {
			found, ok = el, true
			return false
		}
		return true
	})
	return found, ok
}

// Names lists the names of every element in the tree in document order.
// Elements without a name are skipped.
func Names(elements []Element) []string {
	var names []string
	Walk(elements, func(el Element) bool {
		if el.Name != "" {
			names = append(names, el.Name)
		}
		return true
	})
	return names
}
