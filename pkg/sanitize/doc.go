// Package sanitize builds the HTML allow-list policies used to render
// admin- and user-authored markup from form definitions.
//
// Two profiles share a conservative baseline. The standard profile covers
// labels and descriptions and permits inline style and class attributes on
// every allowed element. The rich-content profile covers html blocks and adds
// images while only permitting class on span. Each constructor returns an
// independent, immutable Sanitizer; there is no package-level policy to
// mutate. Script content, event handler attributes, and javascript: URLs are
// removed under every profile regardless of the options supplied.
package sanitize
