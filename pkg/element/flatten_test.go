package element

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlatten_SectionPromotedRepeatableSetRetained(t *testing.T) {
	input := []Element{
		{Type: TypeSection, Name: "s", Elements: []Element{
			{Type: TypeText, Name: "a"},
		}},
		{Type: TypeRepeatableSet, Name: "r", Elements: []Element{
			{Type: TypeText, Name: "b"},
		}},
	}

	got := Flatten(input)
	want := []Element{
		{Type: TypeSection, Name: "s"},
		{Type: TypeText, Name: "a"},
		{Type: TypeRepeatableSet, Name: "r", Elements: []Element{
			{Type: TypeText, Name: "b"},
		}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_PagesAndNestedSections(t *testing.T) {
	input := []Element{
		{Type: TypePage, Name: "p1", Elements: []Element{
			{Type: TypeHeading, Name: "intro"},
			{Type: TypeSection, Name: "contact", Elements: []Element{
				{Type: TypeText, Name: "first"},
				{Type: TypeSection, Name: "inner", Elements: []Element{
					{Type: TypeEmail, Name: "email"},
				}},
				{Type: TypeText, Name: "last"},
			}},
		}},
		{Type: TypePage, Name: "p2", Elements: []Element{
			{Type: TypeBoolean, Name: "agree"},
		}},
	}

	got := namesOf(Flatten(input))
	want := []string{"p1", "intro", "contact", "first", "inner", "email", "last", "p2", "agree"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flatten order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_RepeatableSetTemplateIsFlattened(t *testing.T) {
	input := []Element{
		{Type: TypeText, Name: "before"},
		{Type: TypeRepeatableSet, Name: "people", Elements: []Element{
			{Type: TypeSection, Name: "person", Elements: []Element{
				{Type: TypeText, Name: "name"},
				{Type: TypeRepeatableSet, Name: "phones", Elements: []Element{
					{Type: TypeSection, Name: "phone", Elements: []Element{
						{Type: TypeTelephone, Name: "number"},
					}},
				}},
			}},
		}},
		{Type: TypeText, Name: "after"},
	}

	got := Flatten(input)
	if diff := cmp.Diff([]string{"before", "people", "after"}, namesOf(got)); diff != "" {
		t.Fatalf("set children must not be promoted (-want +got):\n%s", diff)
	}

	set := got[1]
	if diff := cmp.Diff([]string{"person", "name", "phones"}, namesOf(set.Elements)); diff != "" {
		t.Fatalf("set template mismatch (-want +got):\n%s", diff)
	}
	inner := set.Elements[2]
	if diff := cmp.Diff([]string{"phone", "number"}, namesOf(inner.Elements)); diff != "" {
		t.Fatalf("nested set template mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Flatten(input[1].Elements), set.Elements); diff != "" {
		t.Fatalf("set children must equal flatten(template) (-want +got):\n%s", diff)
	}
}

func TestFlatten_FixedPoint(t *testing.T) {
	inputs := map[string][]Element{
		"empty":    {},
		"leaves":   {{Type: TypeText, Name: "a"}, {Type: TypeHTML, Name: "b", Content: "<p>x</p>"}},
		"sections": sampleTree(),
		"sets": {
			{Type: TypeRepeatableSet, Name: "r", Elements: []Element{
				{Type: TypeSection, Name: "s", Elements: []Element{{Type: TypeText, Name: "x"}}},
			}},
			{Type: TypeRepeatableSet, Name: "empty"},
		},
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			once := Flatten(input)
			twice := Flatten(once)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Fatalf("flatten is not a fixed point (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestFlatten_DoesNotMutateInput(t *testing.T) {
	input := sampleTree()
	snapshot := sampleTree()

	_ = Flatten(input)
	_ = Flatten(input)

	if diff := cmp.Diff(snapshot, input); diff != "" {
		t.Fatalf("input tree mutated (-want +got):\n%s", diff)
	}
}

func TestFlatten_PreservesEveryElementOnce(t *testing.T) {
	input := sampleTree()

	got := Flatten(input)
	if len(got) < len(input) {
		t.Fatalf("expected at least %d elements, got %d", len(input), len(got))
	}

	seen := make(map[string]int)
	Walk(got, func(el Element) bool {
		seen[el.Name]++
		return true
	})
	for _, name := range Names(input) {
		if seen[name] != 1 {
			t.Fatalf("expected %q exactly once in output, got %d", name, seen[name])
		}
	}
}

func TestFlatten_NilInput(t *testing.T) {
	if got := Flatten(nil); got != nil {
		t.Fatalf("expected nil for nil input, got %+v", got)
	}
}

func TestFields_DropsTransparentContainers(t *testing.T) {
	got := namesOf(Fields(sampleTree()))
	want := []string{"title", "first", "email", "guests", "notes"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func sampleTree() []Element {
	return []Element{
		{Type: TypePage, Name: "details", Label: "Details", Elements: []Element{
			{Type: TypeHeading, Name: "title", Label: "Book a table"},
			{Type: TypeSection, Name: "contact", Elements: []Element{
				{Type: TypeText, Name: "first", Required: true},
				{Type: TypeEmail, Name: "email"},
			}},
		}},
		{Type: TypeRepeatableSet, Name: "guests", Elements: []Element{
			{Type: TypeSection, Name: "guest", Elements: []Element{
				{Type: TypeText, Name: "guestName"},
			}},
		}},
		{Type: TypeTextarea, Name: "notes", Hint: "Dietary needs for {ELEMENT:first}"},
	}
}

func namesOf(elements []Element) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		out = append(out, el.Name)
	}
	return out
}
