package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	"github.com/goliatone/go-formtree/pkg/definition"
	"github.com/goliatone/go-formtree/pkg/element"
)

const (
	// extensionKey holds per-property overrides: type, label, hint, placeholder.
	extensionKey = "x-formtree"

	longTextThreshold = 255
	maxSchemaDepth    = 16
)

// Options configures an Importer.
type Options struct {
	// Labeler turns property names into labels. Defaults to DefaultLabeler.
	Labeler func(string) string
	// Namespace seeds element ids. Defaults to uuid.NameSpaceURL.
	Namespace uuid.UUID
	// OmitIDs leaves element ids empty.
	OmitIDs bool
	// AllowExternalRefs lets kin-openapi resolve references to other files.
	AllowExternalRefs bool
}

// Option mutates Options.
type Option func(*Options)

// WithLabeler overrides the label generator.
func WithLabeler(fn func(string) string) Option {
	return func(opts *Options) {
		opts.Labeler = fn
	}
}

// WithNamespace seeds generated element ids with ns.
func WithNamespace(ns uuid.UUID) Option {
	return func(opts *Options) {
		opts.Namespace = ns
	}
}

// WithoutIDs disables element id generation.
func WithoutIDs() Option {
	return func(opts *Options) {
		opts.OmitIDs = true
	}
}

// WithExternalRefs allows references to other documents.
func WithExternalRefs() Option {
	return func(opts *Options) {
		opts.AllowExternalRefs = true
	}
}

// Importer converts OpenAPI operations into form definitions.
type Importer struct {
	options Options
}

// NewImporter constructs an Importer.
func NewImporter(opts ...Option) *Importer {
	cfg := Options{
		Labeler:   DefaultLabeler,
		Namespace: uuid.NameSpaceURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Labeler == nil {
		cfg.Labeler = DefaultLabeler
	}
	return &Importer{options: cfg}
}

// ImportFile reads an OpenAPI document from disk and imports operationID.
func (im *Importer) ImportFile(ctx context.Context, path, operationID string) (definition.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return im.Import(ctx, data, operationID)
}

// Import loads an OpenAPI document and converts the request body of
// operationID into a validated form definition.
func (im *Importer) Import(ctx context.Context, data []byte, operationID string) (definition.Definition, error) {
	if err := ctx.Err(); err != nil {
		return definition.Definition{}, err
	}
	if len(data) == 0 {
		return definition.Definition{}, errors.New("openapi: document payload is empty")
	}
	if strings.TrimSpace(operationID) == "" {
		return definition.Definition{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: im.options.AllowExternalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("openapi: load document: %w", err)
	}

	op := findOperation(spec, operationID)
	if op == nil {
		return definition.Definition{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestSchema(op.RequestBody)
	if body == nil {
		return definition.Definition{}, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	b := &builder{options: im.options, operationID: operationID}
	elements := b.objectElements(body, "", "", nil, 0)
	uniqueNames(elements, make(map[string]struct{}))

	name := strings.TrimSpace(op.Summary)
	if name == "" {
		name = im.options.Labeler(operationID)
	}
	def := definition.Definition{
		ID:          operationID,
		Name:        name,
		Description: op.Description,
		Elements:    elements,
	}
	if err := definition.Validate(def); err != nil {
		return definition.Definition{}, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}
	return def, nil
}

// Operations lists the operation ids declared in the document, sorted.
func Operations(ctx context.Context, data []byte) ([]string, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	var ids []string
	if spec.Paths != nil {
		for _, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for _, op := range item.Operations() {
				if op != nil && op.OperationID != "" {
					ids = append(ids, op.OperationID)
				}
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(requestBody *openapi3.RequestBodyRef) *openapi3.Schema {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type builder struct {
	options     Options
	operationID string
}

// objectElements converts the properties of schema, sorted by name. prefix
// qualifies names of properties nested in sections, which share their
// parent's naming scope; path is the full property path used to derive ids.
// stack holds the schemas on the current path so recursive definitions stop
// instead of expanding forever.
func (b *builder) objectElements(schema *openapi3.Schema, prefix, path string, stack []*openapi3.Schema, depth int) []element.Element {
	if schema == nil || depth > maxSchemaDepth || onStack(stack, schema) {
		return nil
	}
	stack = append(stack, schema)

	properties, required := mergedProperties(schema)
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	elements := make([]element.Element, 0, len(names))
	for _, name := range names {
		ref := properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		if el, ok := b.propertyElement(name, prefix, joinPath(path, name), ref.Value, required[name], stack, depth); ok {
			elements = append(elements, el)
		}
	}
	return elements
}

func (b *builder) propertyElement(name, prefix, path string, schema *openapi3.Schema, required bool, stack []*openapi3.Schema, depth int) (element.Element, bool) {
	qualified := joinName(prefix, name)
	el := element.Element{
		Name:     qualified,
		Label:    b.options.Labeler(name),
		Hint:     schema.Description,
		Required: required,
	}
	if title := strings.TrimSpace(schema.Title); title != "" {
		el.Label = title
	}

	switch {
	case isType(schema, "object") || (schema.Type == nil && (len(schema.Properties) > 0 || len(schema.AllOf) > 0)):
		children := b.objectElements(schema, qualified, path, stack, depth+1)
		if len(children) == 0 {
			return element.Element{}, false
		}
		el.Type = element.TypeSection
		el.Required = false
		el.Elements = children
	case isType(schema, "array"):
		if !b.arrayElement(&el, path, schema, stack, depth) {
			return element.Element{}, false
		}
	default:
		b.primitiveElement(&el, schema)
	}

	applyExtensions(&el, schema.Extensions)
	el.ID = b.id(path)
	return el, true
}

func (b *builder) arrayElement(el *element.Element, path string, schema *openapi3.Schema, stack []*openapi3.Schema, depth int) bool {
	if schema.Items == nil || schema.Items.Value == nil {
		return false
	}
	items := schema.Items.Value

	if len(items.Enum) > 0 {
		el.Type = element.TypeCheckboxes
		el.Options = enumOptions(items.Enum)
		return true
	}

	var template []element.Element
	if isType(items, "object") || len(items.Properties) > 0 {
		// A repeatable set opens a new naming scope: child names are not
		// prefixed.
		template = b.objectElements(items, "", path+"[]", stack, depth+1)
	} else {
		item := element.Element{Name: "item", Label: b.options.Labeler(el.Name)}
		b.primitiveElement(&item, items)
		item.ID = b.id(path + "[]")
		template = []element.Element{item}
	}
	if len(template) == 0 {
		return false
	}
	el.Type = element.TypeRepeatableSet
	el.Elements = template
	return true
}

func (b *builder) primitiveElement(el *element.Element, schema *openapi3.Schema) {
	el.DefaultValue = schema.Default

	if len(schema.Enum) > 0 {
		el.Type = element.TypeSelect
		el.Options = enumOptions(schema.Enum)
		return
	}

	switch {
	case isType(schema, "integer"), isType(schema, "number"):
		el.Type = element.TypeNumber
	case isType(schema, "boolean"):
		el.Type = element.TypeBoolean
	default:
		el.Type = stringElementType(schema)
	}
}

func stringElementType(schema *openapi3.Schema) element.Type {
	switch strings.ToLower(schema.Format) {
	case "email":
		return element.TypeEmail
	case "date":
		return element.TypeDate
	case "date-time":
		return element.TypeDateTime
	case "time":
		return element.TypeTime
	case "binary", "byte":
		return element.TypeFiles
	case "tel", "phone", "telephone":
		return element.TypeTelephone
	case "textarea", "markdown", "html":
		return element.TypeTextarea
	}
	if schema.MaxLength != nil && *schema.MaxLength > longTextThreshold {
		return element.TypeTextarea
	}
	return element.TypeText
}

// mergedProperties combines the properties and required lists of schema and
// its allOf members. Later members override earlier ones.
func mergedProperties(schema *openapi3.Schema) (openapi3.Schemas, map[string]bool) {
	properties := make(openapi3.Schemas)
	required := make(map[string]bool)

	var merge func(*openapi3.Schema, int)
	merge = func(s *openapi3.Schema, depth int) {
		if s == nil || depth > maxSchemaDepth {
			return
		}
		for _, ref := range s.AllOf {
			if ref != nil {
				merge(ref.Value, depth+1)
			}
		}
		for name, prop := range s.Properties {
			properties[name] = prop
		}
		for _, name := range s.Required {
			required[name] = true
		}
	}
	merge(schema, 0)
	return properties, required
}

func enumOptions(values []any) []element.Option {
	out := make([]element.Option, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		text := fmt.Sprint(value)
		out = append(out, element.Option{Value: text, Label: DefaultLabeler(text)})
	}
	return out
}

func applyExtensions(el *element.Element, extensions map[string]any) {
	raw, ok := extensions[extensionKey].(map[string]any)
	if !ok {
		return
	}
	if value, ok := raw["type"].(string); ok {
		typ := element.Type(strings.TrimSpace(value))
		// Only leaf overrides: container shape is dictated by the schema.
		if typ.Valid() && typ.Kind() == element.KindLeaf && el.Type.Kind() == element.KindLeaf {
			el.Type = typ
		}
	}
	if value, ok := raw["label"].(string); ok && value != "" {
		el.Label = value
	}
	if value, ok := raw["hint"].(string); ok && value != "" {
		el.Hint = value
	}
	if value, ok := raw["placeholder"].(string); ok && value != "" {
		el.Placeholder = value
	}
}

// id derives a stable element id from the operation and property path.
func (b *builder) id(path string) string {
	if b.options.OmitIDs {
		return ""
	}
	return uuid.NewSHA1(b.options.Namespace, []byte(b.operationID+"#"+path)).String()
}

func isType(schema *openapi3.Schema, typ string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, candidate := range schema.Type.Slice() {
		if candidate == typ {
			return true
		}
	}
	return false
}

func onStack(stack []*openapi3.Schema, schema *openapi3.Schema) bool {
	for _, s := range stack {
		if s == schema {
			return true
		}
	}
	return false
}

// uniqueNames suffixes _2, _3, ... onto names already taken in their scope.
// A section flattens its properties into the parent scope with a prefix, so
// contact.email and a sibling contact_email would otherwise collide. Earlier
// elements in document order keep their name.
func uniqueNames(elements []element.Element, taken map[string]struct{}) {
	for i := range elements {
		el := &elements[i]
		name := el.Name
		for n := 2; ; n++ {
			if _, dup := taken[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", el.Name, n)
		}
		taken[name] = struct{}{}
		el.Name = name

		switch el.Type.Kind() {
		case element.KindRepeatableSet:
			uniqueNames(el.Elements, make(map[string]struct{}))
		case element.KindPage, element.KindSection:
			uniqueNames(el.Elements, taken)
		}
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
