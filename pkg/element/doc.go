// Package element defines the form element tree shared by the rest of the
// formtree pipeline. A form is an ordered slice of Element values where pages,
// sections, and repeatable sets carry children and every other type is a leaf.
//
// Consumers never mutate a tree in place: Flatten, Fields, and IsInformational
// return derived values, so the same definition can be processed repeatedly
// (for example on every render) and shared between goroutines.
package element
