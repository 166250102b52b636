package definition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formtree/pkg/element"
	"github.com/goliatone/go-formtree/pkg/placeholder"
)

// ErrInvalidDefinition is matched by every ValidationError.
var ErrInvalidDefinition = errors.New("definition: invalid definition")

// DefaultMaxDepth bounds container nesting unless overridden.
const DefaultMaxDepth = 32

// Issue describes one structural problem.
type Issue struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError collects every issue found in a definition.
type ValidationError struct {
	Source string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	prefix := "definition: invalid"
	if e.Source != "" {
		prefix += " " + e.Source
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrInvalidDefinition.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidDefinition
}

// Options controls validation.
type Options struct {
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	// StrictReferences reports placeholders that reference unknown elements.
	StrictReferences bool
}

// Option mutates Options.
type Option func(*Options)

// WithMaxDepth overrides the nesting bound.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithStrictReferences reports {ELEMENT:name} placeholders whose target is
// not part of the definition.
func WithStrictReferences() Option {
	return func(opts *Options) {
		opts.StrictReferences = true
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	cfg := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// Validate checks the structural invariants of def and returns a
// *ValidationError listing every issue, or nil.
func Validate(def Definition, opts ...Option) error {
	return validate(def, "", NewOptions(opts...))
}

func validate(def Definition, source string, options Options) error {
	v := &validator{
		options: options,
		ids:     make(map[string]string),
	}
	if strings.TrimSpace(def.Name) == "" {
		v.add("", "definition name is required")
	}
	v.scope(def.Elements, "elements", 1)

	if options.StrictReferences {
		for _, ref := range placeholder.Unresolved(def.Elements) {
			v.add("", fmt.Sprintf("element %q references unknown element %q", ref.Element, ref.Target))
		}
	}

	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Source: source, Issues: v.issues}
}

type validator struct {
	options Options
	ids     map[string]string
	issues  []Issue
}

func (v *validator) add(path, message string) {
	v.issues = append(v.issues, Issue{Path: path, Message: message})
}

// scope validates a sibling list that starts a new naming scope.
func (v *validator) scope(elements []element.Element, path string, depth int) {
	names := make(map[string]string)
	v.list(elements, path, depth, names)
}

func (v *validator) list(elements []element.Element, path string, depth int, names map[string]string) {
	if depth > v.options.MaxDepth {
		v.add(path, fmt.Sprintf("nesting exceeds maximum depth %d", v.options.MaxDepth))
		return
	}
	for i, el := range elements {
		v.element(el, fmt.Sprintf("%s[%d]", path, i), depth, names)
	}
}

func (v *validator) element(el element.Element, path string, depth int, names map[string]string) {
	switch {
	case el.Type == "":
		v.add(path, "type is required")
	case !el.Type.Valid():
		v.add(path, fmt.Sprintf("unknown element type %q", el.Type))
	}

	name := strings.TrimSpace(el.Name)
	switch {
	case name == "":
		v.add(path, "name is required")
	case name != el.Name:
		v.add(path, fmt.Sprintf("name %q has surrounding whitespace", el.Name))
	default:
		if previous, exists := names[name]; exists {
			v.add(path, fmt.Sprintf("duplicate name %q (first used at %s)", name, previous))
		} else {
			names[name] = path
		}
	}

	if el.ID != "" {
		if _, err := uuid.Parse(el.ID); err != nil {
			v.add(path, fmt.Sprintf("id %q is not a UUID", el.ID))
		} else if previous, exists := v.ids[el.ID]; exists {
			v.add(path, fmt.Sprintf("duplicate id %q (first used at %s)", el.ID, previous))
		} else {
			v.ids[el.ID] = path
		}
	}

	childPath := path + ".elements"
	switch el.Type.Kind() {
	case element.KindPage, element.KindSection:
		v.list(el.Elements, childPath, depth+1, names)
	case element.KindRepeatableSet:
		if len(el.Elements) == 0 {
			v.add(path, "repeatable set has no template elements")
		}
		if depth+1 > v.options.MaxDepth {
			v.add(childPath, fmt.Sprintf("nesting exceeds maximum depth %d", v.options.MaxDepth))
			return
		}
		v.scope(el.Elements, childPath, depth+1)
	default:
		if len(el.Elements) > 0 {
			v.add(path, fmt.Sprintf("%s elements cannot have children", el.Type))
		}
	}
}
