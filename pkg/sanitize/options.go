package sanitize

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options extends a profile's allow-list. Entries that would re-enable script
// execution (script or style elements, on* attributes, javascript: URLs) are
// discarded when the policy is built. A style attribute granted through
// Attributes is always filtered by the CSS property allow-list.
type Options struct {
	// Elements are extra element names to keep.
	Elements []string
	// Attributes maps an element name to extra attributes allowed on it. The
	// key "*" applies the attributes to every allowed element.
	Attributes map[string][]string
	// URLSchemes are extra schemes accepted in href and src.
	URLSchemes []string
	// Styles are extra inline CSS properties to keep.
	Styles []string
}

// Option mutates Options prior to building a Sanitizer.
type Option func(*Options)

// WithElements allows additional elements.
func WithElements(names ...string) Option {
	return func(opts *Options) {
		opts.Elements = append(opts.Elements, names...)
	}
}

// WithAttributes allows attrs on element ("*" for every allowed element).
func WithAttributes(element string, attrs ...string) Option {
	return func(opts *Options) {
		if opts.Attributes == nil {
			opts.Attributes = make(map[string][]string)
		}
		opts.Attributes[element] = append(opts.Attributes[element], attrs...)
	}
}

// WithURLSchemes allows additional URL schemes such as "tel".
func WithURLSchemes(schemes ...string) Option {
	return func(opts *Options) {
		opts.URLSchemes = append(opts.URLSchemes, schemes...)
	}
}

// WithStyles allows additional inline CSS properties.
func WithStyles(properties ...string) Option {
	return func(opts *Options) {
		opts.Styles = append(opts.Styles, properties...)
	}
}

// NewOptions applies opts to an empty Options value.
func NewOptions(opts ...Option) Options {
	cfg := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Extension is the serialisable form of Options.
type Extension struct {
	Elements   []string            `json:"elements,omitempty" yaml:"elements,omitempty"`
	Attributes map[string][]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	URLSchemes []string            `json:"urlSchemes,omitempty" yaml:"urlSchemes,omitempty"`
	Styles     []string            `json:"styles,omitempty" yaml:"styles,omitempty"`
}

// Options converts the extension into builder options.
func (e Extension) Options() []Option {
	var opts []Option
	if len(e.Elements) > 0 {
		opts = append(opts, WithElements(e.Elements...))
	}
	for el, attrs := range e.Attributes {
		opts = append(opts, WithAttributes(el, attrs...))
	}
	if len(e.URLSchemes) > 0 {
		opts = append(opts, WithURLSchemes(e.URLSchemes...))
	}
	if len(e.Styles) > 0 {
		opts = append(opts, WithStyles(e.Styles...))
	}
	return opts
}

// Config holds per-profile extensions, typically read from a YAML or JSON file.
type Config struct {
	Standard    Extension `json:"standard" yaml:"standard"`
	RichContent Extension `json:"richContent" yaml:"richContent"`
}

// For returns the options configured for profile.
func (c Config) For(profile Profile) []Option {
	switch profile {
	case ProfileStandard:
		return c.Standard.Options()
	case ProfileRichContent:
		return c.RichContent.Options()
	default:
		return nil
	}
}

// Build constructs the sanitizer for profile with the configured extensions.
func (c Config) Build(profile Profile) (*Sanitizer, error) {
	return New(profile, c.For(profile)...)
}

// LoadConfig reads a JSON or YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sanitize: read config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig decodes a JSON or YAML payload; source names it in errors.
func ParseConfig(data []byte, source string) (Config, error) {
	var cfg Config
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("sanitize: config %s is empty", source)
	}
	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}
	cfg = Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("sanitize: parse config %s: %w", source, err)
	}
	return cfg, nil
}
