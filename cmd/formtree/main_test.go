package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formtree/pkg/definition"
	"github.com/goliatone/go-formtree/pkg/element"
	"github.com/goliatone/go-formtree/pkg/placeholder"
)

var (
	bookingForm = filepath.Join("..", "..", "pkg", "definition", "testdata", "forms", "booking.yaml")
	noticeForm  = filepath.Join("..", "..", "pkg", "definition", "testdata", "forms", "notice.json")
	formsDir    = filepath.Join("..", "..", "pkg", "definition", "testdata", "forms")
	bookingsAPI = filepath.Join("..", "..", "pkg", "openapi", "testdata", "bookings.yaml")
)

func execute(t *testing.T, cfg Config, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, cfg, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_Flatten(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), "", "flatten", bookingForm)
	require.NoError(t, err)

	var got []element.Element
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t,
		[]string{"details", "title", "contact", "first", "email", "guests", "confirmation"},
		topLevelNames(got))
	require.Empty(t, got[0].Elements, "retained page must not repeat its children")
	require.NotEmpty(t, got[5].Elements, "repeatable set keeps its template")
	require.Contains(t, out, "<p>Thanks {ELEMENT:first}")
}

func TestRun_FlattenFieldsYAML(t *testing.T) {
	cfg := defaultConfig()
	cfg.Output = "yaml"
	out, _, err := execute(t, cfg, "", "flatten", "-fields", bookingForm)
	require.NoError(t, err)

	var got []element.Element
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, []string{"title", "first", "email", "guests", "confirmation"}, topLevelNames(got))
}

func TestRun_Classify(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), "", "classify", noticeForm)
	require.NoError(t, err)

	var got classification
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, classification{Definition: "notice", Informational: true}, got)

	out, _, err = execute(t, defaultConfig(), "", "classify", "-output", "yaml", bookingForm)
	require.NoError(t, err)
	require.Contains(t, out, "informational: false")
}

func TestRun_Placeholders(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), "", "placeholders", bookingForm)
	require.NoError(t, err)

	var refs []placeholder.Reference
	require.NoError(t, json.Unmarshal([]byte(out), &refs))
	require.Equal(t, []placeholder.Reference{
		{Element: "confirmation", Target: "first"},
		{Element: "confirmation", Target: "email"},
	}, refs)

	out, _, err = execute(t, defaultConfig(), "", "placeholders", "-unresolved", bookingForm)
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(out))
}

func TestRun_SanitizeStdin(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), `<p onclick="x()">Hi<script>alert(1)</script></p>`, "sanitize")
	require.NoError(t, err)
	require.Equal(t, "<p>Hi</p>", strings.TrimSpace(out))

	out, _, err = execute(t, defaultConfig(), `<img src="https://example.com/a.png" alt="a"><h1>T</h1>`, "sanitize", "-profile", "richContent")
	require.NoError(t, err)
	require.Contains(t, out, `<img src="https://example.com/a.png" alt="a">`)
	require.NotContains(t, out, "<h1>")
}

func TestRun_SanitizeWithConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "sanitize.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("standard:\n  elements: [sup]\n"), 0o644))

	cfg := defaultConfig()
	cfg.SanitizeConfig = configPath
	out, _, err := execute(t, cfg, "", "sanitize", writeTemp(t, dir, "in.html", "x<sup>2</sup>"))
	require.NoError(t, err)
	require.Equal(t, "x<sup>2</sup>", strings.TrimSpace(out))
}

func TestRun_SanitizeUnknownProfile(t *testing.T) {
	_, _, err := execute(t, defaultConfig(), "<p>x</p>", "sanitize", "-profile", "loose")
	require.Error(t, err)
}

func TestRun_Validate(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), "", "validate", bookingForm, formsDir)
	require.NoError(t, err)
	require.Contains(t, out, "ok 7d0c9a2e-4f0b-4c55-9a44-3b1f8a6e2c01")
	require.Contains(t, out, "ok notice (notice.json)")

	dir := t.TempDir()
	broken := writeTemp(t, dir, "broken.yaml", "name: Broken\nelements:\n  - type: text\n    name: a\n  - type: text\n    name: a\n")
	_, logs, err := execute(t, defaultConfig(), "", "validate", broken)
	require.Error(t, err)
	require.Contains(t, logs, "duplicate")
}

func TestRun_ValidateStrict(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "refs.yaml", "name: Refs\nelements:\n  - type: html\n    name: intro\n    content: \"Hi {ELEMENT:missing}\"\n")

	_, _, err := execute(t, defaultConfig(), "", "validate", path)
	require.NoError(t, err)

	_, _, err = execute(t, defaultConfig(), "", "validate", "-strict", path)
	require.Error(t, err)
}

func TestRun_Import(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), "", "import", "-operation", "createBooking", "-no-ids", bookingsAPI)
	require.NoError(t, err)

	var def definition.Definition
	require.NoError(t, json.Unmarshal([]byte(out), &def))
	require.Equal(t, "createBooking", def.ID)
	require.NoError(t, definition.Validate(def))

	guests, ok := element.Find(def.Elements, "guests")
	require.True(t, ok)
	require.Equal(t, element.TypeRepeatableSet, guests.Type)

	out, _, err = execute(t, defaultConfig(), "", "import", "-list", bookingsAPI)
	require.NoError(t, err)
	require.Equal(t, "createBooking\nupdateNote\n", out)

	_, _, err = execute(t, defaultConfig(), "", "import", bookingsAPI)
	require.ErrorIs(t, err, errUsage)
}

func TestRun_Schema(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), "", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	require.Equal(t, "Form definition", schema["title"])
}

func TestRun_Confirmation(t *testing.T) {
	out, _, err := execute(t, defaultConfig(), "", "confirmation", "email")
	require.NoError(t, err)
	require.Equal(t, "ZW1haWw=\n", out)

	out, _, err = execute(t, defaultConfig(), "", "confirmation", "-decode", "ZW1haWw=")
	require.NoError(t, err)
	require.Equal(t, "email\n", out)

	_, _, err = execute(t, defaultConfig(), "", "confirmation", "-decode", "%%%")
	require.Error(t, err)
}

func TestRun_Usage(t *testing.T) {
	_, usage, err := execute(t, defaultConfig(), "")
	require.ErrorIs(t, err, errUsage)
	require.Contains(t, usage, "flatten")

	_, _, err = execute(t, defaultConfig(), "", "render")
	require.ErrorIs(t, err, errUsage)

	_, _, err = execute(t, defaultConfig(), "", "flatten")
	require.ErrorIs(t, err, errUsage)

	cfg := defaultConfig()
	cfg.Output = "xml"
	_, _, err = execute(t, cfg, "", "classify", noticeForm)
	require.Error(t, err)

	cfg = defaultConfig()
	cfg.LogLevel = "chatty"
	_, _, err = execute(t, cfg, "", "schema")
	require.Error(t, err)
}

func TestExitCode_ReportsUsageErrors(t *testing.T) {
	_, _, err := execute(t, defaultConfig(), "", "flatten")
	require.ErrorIs(t, err, errUsage)

	var stderr bytes.Buffer
	require.Equal(t, 2, exitCode(&stderr, err))
	require.Contains(t, stderr.String(), "expected one definition file, got 0 arguments")

	stderr.Reset()
	require.Equal(t, 2, exitCode(&stderr, errUsage))
	require.Empty(t, stderr.String())

	_, _, err = execute(t, defaultConfig(), "", "classify", "missing.yaml")
	require.Error(t, err)
	stderr.Reset()
	require.Equal(t, 1, exitCode(&stderr, err))
	require.Contains(t, stderr.String(), "missing.yaml")

	require.Equal(t, 0, exitCode(&stderr, nil))
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("FORMTREE_PROFILE", "richContent")
	t.Setenv("FORMTREE_OUTPUT", "yaml")
	t.Setenv("FORMTREE_STRICT", "true")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, "richContent", cfg.Profile)
	require.Equal(t, "yaml", cfg.Output)
	require.Equal(t, "warn", cfg.LogLevel)
	require.True(t, cfg.Strict)
}

func topLevelNames(elements []element.Element) []string {
	names := make([]string, 0, len(elements))
	for _, el := range elements {
		names = append(names, el.Name)
	}
	return names
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
