package definition

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/goliatone/go-formtree/pkg/element"
)

var elementTypeType = reflect.TypeOf(element.Type(""))

// JSONSchema describes the definition document format so authoring tools can
// validate files before they reach the loader.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		Mapper:         mapElementType,
	}
	schema := r.Reflect(new(Definition))
	schema.Title = "Form definition"

	payload, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("definition: marshal schema: %w", err)
	}
	return payload, nil
}

func mapElementType(t reflect.Type) *jsonschema.Schema {
	if t != elementTypeType {
		return nil
	}
	types := element.Types()
	enum := make([]any, 0, len(types))
	for _, typ := range types {
		enum = append(enum, string(typ))
	}
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        enum,
		Description: "Element type tag.",
	}
}
