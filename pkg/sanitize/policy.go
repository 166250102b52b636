package sanitize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Profile names a sanitization allow-list.
type Profile string

const (
	// ProfileStandard allows formatting tags plus style and class everywhere.
	ProfileStandard Profile = "standard"
	// ProfileRichContent allows images and class on span elements.
	ProfileRichContent Profile = "richContent"
)

// Profiles lists the supported profiles.
func Profiles() []Profile {
	return []Profile{ProfileStandard, ProfileRichContent}
}

var baselineElements = []string{
	"h3", "h4", "h5", "h6", "blockquote", "p", "a", "ul", "ol", "li",
	"i", "strong", "em", "strike", "code", "hr", "br", "div",
	"table", "thead", "caption", "tbody", "tr", "th", "td", "pre",
}

var baselineURLSchemes = []string{"http", "https", "ftp", "mailto"}

var (
	standardElements    = []string{"u", "b", "span", "h1", "h2"}
	richContentElements = []string{"u", "b", "img", "span"}
)

// standardStyles are the inline CSS properties kept by the standard profile.
// Values are checked by bluemonday's per-property handlers.
var standardStyles = []string{
	"color", "background-color", "font-size", "font-weight", "font-style",
	"font-family", "text-align", "text-decoration", "text-transform",
	"line-height", "letter-spacing", "margin", "margin-top", "margin-bottom",
	"margin-left", "margin-right", "padding", "padding-top", "padding-bottom",
	"padding-left", "padding-right", "border", "border-color", "border-style",
	"border-width", "width", "height", "display", "vertical-align",
	"white-space", "list-style-type",
}

var targetPattern = regexp.MustCompile(`^(_blank|_self|_parent|_top)$`)

// forbiddenElements are never allowed, whatever the options say.
var forbiddenElements = map[string]struct{}{
	"script": {}, "style": {}, "iframe": {}, "frame": {}, "frameset": {},
	"object": {}, "embed": {}, "applet": {}, "base": {}, "link": {},
	"meta": {}, "noscript": {}, "template": {}, "svg": {}, "math": {},
	"form": {}, "input": {}, "button": {}, "textarea": {}, "select": {},
}

var forbiddenAttributes = map[string]struct{}{
	"srcdoc": {}, "formaction": {}, "action": {}, "xmlns": {},
}

var forbiddenSchemes = map[string]struct{}{
	"javascript": {}, "vbscript": {}, "data": {}, "file": {},
}

// Sanitizer applies one profile. It is safe for concurrent use.
type Sanitizer struct {
	profile  Profile
	elements []string
	policy   *bluemonday.Policy
}

// New builds a sanitizer for profile extended by opts.
func New(profile Profile, opts ...Option) (*Sanitizer, error) {
	options := NewOptions(opts...)
	switch profile {
	case ProfileStandard:
		return buildStandard(options), nil
	case ProfileRichContent:
		return buildRichContent(options), nil
	default:
		return nil, fmt.Errorf("sanitize: unknown profile %q", profile)
	}
}

// NewStandard builds the standard profile.
func NewStandard(opts ...Option) *Sanitizer {
	return buildStandard(NewOptions(opts...))
}

// NewRichContent builds the rich-content profile used for html blocks.
func NewRichContent(opts ...Option) *Sanitizer {
	return buildRichContent(NewOptions(opts...))
}

// Profile reports which profile the sanitizer applies.
func (s *Sanitizer) Profile() Profile {
	return s.profile
}

// AllowedElements lists the element names the sanitizer keeps, sorted.
func (s *Sanitizer) AllowedElements() []string {
	return append([]string(nil), s.elements...)
}

// Sanitize returns html stripped of everything outside the allow-list.
// Malformed markup is repaired or dropped; Sanitize never fails.
func (s *Sanitizer) Sanitize(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	return s.policy.Sanitize(html)
}

func buildStandard(options Options) *Sanitizer {
	policy, elements, styled := baseline(options, standardElements)
	policy.AllowAttrs("class").OnElements(elements...)
	allowStyle(policy, allowedElements(elements, styled), styleProperties(options))
	return &Sanitizer{profile: ProfileStandard, elements: elements, policy: policy}
}

func buildRichContent(options Options) *Sanitizer {
	policy, elements, styled := baseline(options, richContentElements)
	policy.AllowAttrs("class").OnElements("span")
	if len(options.Styles) > 0 {
		styled = elements
	}
	allowStyle(policy, styled, styleProperties(options))
	return &Sanitizer{profile: ProfileRichContent, elements: elements, policy: policy}
}

// allowStyle permits the style attribute on elements together with a CSS
// property allow-list. bluemonday copies style values verbatim when no
// property policy applies, so the two are never registered apart.
func allowStyle(policy *bluemonday.Policy, elements, properties []string) {
	if len(elements) == 0 {
		return
	}
	policy.AllowAttrs("style").OnElements(elements...)
	policy.AllowStyles(properties...).OnElements(elements...)
}

func styleProperties(options Options) []string {
	out := append([]string(nil), standardStyles...)
	for _, raw := range options.Styles {
		if property := normaliseName(raw); property != "" {
			out = append(out, property)
		}
	}
	return out
}

// baseline returns a fresh policy holding the shared allow-list plus extra
// elements and any option supplied extensions. Elements granted style through
// options are returned separately so the caller can attach a property policy.
func baseline(options Options, extra []string) (*bluemonday.Policy, []string, []string) {
	policy := bluemonday.NewPolicy()

	elements := allowedElements(baselineElements, extra, options.Elements)
	policy.AllowElements(elements...)

	policy.AllowAttrs("href", "name").OnElements("a")
	policy.AllowAttrs("target").Matching(targetPattern).OnElements("a")
	policy.AllowAttrs("src", "alt").OnElements("img")

	policy.RequireParseableURLs(true)
	policy.AllowRelativeURLs(true)
	policy.AllowURLSchemes(allowedSchemes(options.URLSchemes)...)

	var styled []string
	for _, el := range sortedKeys(options.Attributes) {
		attrs, style := allowedAttributes(options.Attributes[el])
		targets := elements
		if el != "*" {
			name := normaliseName(el)
			if _, blocked := forbiddenElements[name]; blocked || name == "" {
				continue
			}
			targets = []string{name}
		}
		if style {
			styled = append(styled, targets...)
		}
		if len(attrs) > 0 {
			policy.AllowAttrs(attrs...).OnElements(targets...)
		}
	}

	return policy, elements, styled
}

func allowedElements(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, raw := range group {
			name := normaliseName(raw)
			if name == "" {
				continue
			}
			if _, blocked := forbiddenElements[name]; blocked {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// allowedAttributes filters raw and reports style separately; it is only
// ever granted alongside a property policy.
func allowedAttributes(raw []string) ([]string, bool) {
	var (
		out   []string
		style bool
	)
	for _, attr := range raw {
		name := normaliseName(attr)
		if name == "" || strings.HasPrefix(name, "on") {
			continue
		}
		if name == "style" {
			style = true
			continue
		}
		if _, blocked := forbiddenAttributes[name]; blocked {
			continue
		}
		out = append(out, name)
	}
	return out, style
}

func allowedSchemes(extra []string) []string {
	out := append([]string(nil), baselineURLSchemes...)
	for _, raw := range extra {
		scheme := strings.TrimSuffix(normaliseName(raw), ":")
		if scheme == "" {
			continue
		}
		if _, blocked := forbiddenSchemes[scheme]; blocked {
			continue
		}
		out = append(out, scheme)
	}
	return out
}

func normaliseName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
