// Package placeholder finds and substitutes {ELEMENT:name} tokens embedded in
// element free text such as HTML blocks, labels, and email templates.
package placeholder

import (
	"regexp"
	"strings"
)

// Marker opens an element placeholder. The token closes with "}".
const Marker = "{ELEMENT:"

var pattern = regexp.MustCompile(`\{ELEMENT:([^}]+)\}`)

// Scan calls onMatch with the element name of every well-formed placeholder in
// text, left to right. Matches never overlap. Empty names ("{ELEMENT:}") and
// unterminated markers are ignored.
func Scan(text string, onMatch func(name string)) {
	if onMatch == nil || !strings.Contains(text, Marker) {
		return
	}
	for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		if start < 0 || end <= start {
			continue
		}
		onMatch(text[start:end])
	}
}

// Names returns the element names referenced by text in order of appearance.
// Repeated references are reported each time they occur.
func Names(text string) []string {
	var names []string
	Scan(text, func(name string) {
		names = append(names, name)
	})
	return names
}

// Replace substitutes each placeholder with the value returned by resolve.
// Tokens resolve does not know about are left untouched.
func Replace(text string, resolve func(name string) (string, bool)) string {
	if resolve == nil || !strings.Contains(text, Marker) {
		return text
	}
	return pattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[len(Marker) : len(token)-1]
		if value, ok := resolve(name); ok {
			return value
		}
		return token
	})
}

// Token returns the placeholder text referencing name.
func Token(name string) string {
	return Marker + name + "}"
}
