package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formtree/pkg/definition"
	"github.com/goliatone/go-formtree/pkg/element"
	"github.com/goliatone/go-formtree/pkg/openapi"
	"github.com/goliatone/go-formtree/pkg/placeholder"
	"github.com/goliatone/go-formtree/pkg/sanitize"
)

type classification struct {
	Definition    string `json:"definition" yaml:"definition"`
	Informational bool   `json:"informational" yaml:"informational"`
}

func runFlatten(_ context.Context, a *app, args []string) error {
	fs := a.flags("flatten")
	fieldsOnly := fs.Bool("fields", false, "omit pages and sections from the output")
	output := fs.String("output", a.cfg.Output, "output format (json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), "definition file")
	if err != nil {
		return err
	}

	def, err := a.loadDefinition(path)
	if err != nil {
		return err
	}

	elements := def.Flatten()
	if *fieldsOnly {
		elements = element.Fields(def.Elements)
	}
	if elements == nil {
		elements = []element.Element{}
	}
	return a.write(*output, elements)
}

func runClassify(_ context.Context, a *app, args []string) error {
	fs := a.flags("classify")
	output := fs.String("output", a.cfg.Output, "output format (json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), "definition file")
	if err != nil {
		return err
	}

	def, err := a.loadDefinition(path)
	if err != nil {
		return err
	}
	return a.write(*output, classification{Definition: def.Key(), Informational: def.IsInformational()})
}

func runPlaceholders(_ context.Context, a *app, args []string) error {
	fs := a.flags("placeholders")
	unresolved := fs.Bool("unresolved", false, "only list references to unknown elements")
	output := fs.String("output", a.cfg.Output, "output format (json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), "definition file")
	if err != nil {
		return err
	}

	def, err := a.loadDefinition(path)
	if err != nil {
		return err
	}

	refs := placeholder.References(def.Elements)
	if *unresolved {
		refs = placeholder.Unresolved(def.Elements)
	}
	if refs == nil {
		refs = []placeholder.Reference{}
	}
	return a.write(*output, refs)
}

func runSanitize(_ context.Context, a *app, args []string) error {
	fs := a.flags("sanitize")
	profile := fs.String("profile", a.cfg.Profile, "sanitize profile (standard|richContent)")
	configPath := fs.String("config", a.cfg.SanitizeConfig, "sanitize extension config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: sanitize takes at most one file", errUsage)
	}

	sanitizer, err := a.sanitizer(sanitize.Profile(*profile), *configPath)
	if err != nil {
		return err
	}

	var input []byte
	if fs.NArg() == 0 || fs.Arg(0) == "-" {
		input, err = io.ReadAll(a.stdin)
	} else {
		input, err = os.ReadFile(fs.Arg(0))
	}
	if err != nil {
		return fmt.Errorf("formtree: read input: %w", err)
	}

	_, err = fmt.Fprintln(a.stdout, sanitizer.Sanitize(string(input)))
	return err
}

func (a *app) sanitizer(profile sanitize.Profile, configPath string) (*sanitize.Sanitizer, error) {
	if strings.TrimSpace(configPath) == "" {
		return sanitize.New(profile)
	}
	cfg, err := sanitize.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"config": configPath, "profile": profile}).Debug("loaded sanitize config")
	return cfg.Build(profile)
}

func runValidate(_ context.Context, a *app, args []string) error {
	fs := a.flags("validate")
	strict := fs.Bool("strict", a.cfg.Strict, "report placeholders that reference unknown elements")
	maxDepth := fs.Int("max-depth", definition.DefaultMaxDepth, "maximum container nesting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: validate needs at least one file or directory", errUsage)
	}

	opts := []definition.Option{definition.WithMaxDepth(*maxDepth)}
	if *strict {
		opts = append(opts, definition.WithStrictReferences())
	}

	failed := 0
	for _, path := range fs.Args() {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("formtree: %w", err)
		}

		if info.IsDir() {
			store, err := definition.LoadFS(os.DirFS(path), opts...)
			if err != nil {
				a.log.WithField("path", path).Error(err)
				failed++
				continue
			}
			for _, key := range store.Keys() {
				source, _ := store.Source(key)
				fmt.Fprintf(a.stdout, "ok %s (%s)\n", key, source)
			}
			continue
		}

		def, err := definition.LoadFile(path, opts...)
		if err != nil {
			a.log.WithField("path", path).Error(err)
			failed++
			continue
		}
		fmt.Fprintf(a.stdout, "ok %s (%s)\n", def.Key(), path)
	}

	if failed > 0 {
		return fmt.Errorf("formtree: %d of %d inputs failed validation", failed, fs.NArg())
	}
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := a.flags("import")
	operation := fs.String("operation", "", "operation ID to import")
	list := fs.Bool("list", false, "list operation IDs instead of importing")
	noIDs := fs.Bool("no-ids", false, "omit generated element ids")
	externalRefs := fs.Bool("external-refs", false, "resolve external $ref targets")
	output := fs.String("output", a.cfg.Output, "output format (json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), "OpenAPI document")
	if err != nil {
		return err
	}

	if *list {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("formtree: read %s: %w", path, err)
		}
		ids, err := openapi.Operations(ctx, data)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(a.stdout, id)
		}
		return nil
	}

	if strings.TrimSpace(*operation) == "" {
		return fmt.Errorf("%w: import needs -operation", errUsage)
	}

	var opts []openapi.Option
	if *noIDs {
		opts = append(opts, openapi.WithoutIDs())
	}
	if *externalRefs {
		opts = append(opts, openapi.WithExternalRefs())
	}

	def, err := openapi.NewImporter(opts...).ImportFile(ctx, path, *operation)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"operation": *operation,
		"elements":  len(def.Flatten()),
	}).Info("imported definition")
	return a.write(*output, def)
}

func runSchema(_ context.Context, a *app, args []string) error {
	fs := a.flags("schema")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := definition.JSONSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}

func runConfirmation(_ context.Context, a *app, args []string) error {
	fs := a.flags("confirmation")
	decode := fs.Bool("decode", false, "decode a confirmation name back to the element name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	value, err := singleArg(fs.Args(), "name")
	if err != nil {
		return err
	}

	if *decode {
		name, err := element.DecodeConfirmationName(value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, name)
		return err
	}
	_, err = fmt.Fprintln(a.stdout, element.ConfirmationName(element.Element{Name: value}))
	return err
}

func (a *app) loadDefinition(path string) (definition.Definition, error) {
	var opts []definition.Option
	if a.cfg.Strict {
		opts = append(opts, definition.WithStrictReferences())
	}
	def, err := definition.LoadFile(path, opts...)
	if err != nil {
		return definition.Definition{}, err
	}
	a.log.WithFields(logrus.Fields{"path": path, "definition": def.Key()}).Debug("loaded definition")
	return def, nil
}

func singleArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected one %s, got %d arguments", errUsage, what, len(args))
	}
	return args[0], nil
}
