package gen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_Valid(t *testing.T) {
	yaml := `
package: ./shapes
types:
  - type: Point
    constructors: [NewPoint]
    static_fields: [DefaultScale]
    static_methods: [Origin]
    exclude_methods: [String]
  - type: Anchor
    promoted_fields: true
`
	cfg, err := ParseConfig([]byte(yaml), "klass.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Package != "./shapes" {
		t.Errorf("package = %q, want ./shapes", cfg.Package)
	}
	if cfg.Output != "zz_klass_generated.go" {
		t.Errorf("output = %q, want default", cfg.Output)
	}
	if len(cfg.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(cfg.Types))
	}
	point := cfg.Types[0]
	if point.Type != "Point" || len(point.Constructors) != 1 || point.StaticFields[0] != "DefaultScale" {
		t.Errorf("unexpected point config: %+v", point)
	}
	if point.StaticMethods[0] != "Origin" || point.ExcludeMethods[0] != "String" {
		t.Errorf("unexpected point config: %+v", point)
	}
	if !cfg.Types[1].PromotedFields {
		t.Error("expected promoted_fields on Anchor")
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing package", "types: [{type: Point}]", "package is required"},
		{"no types", "package: ./x", "no types defined"},
		{"output with directory", "package: ./x\noutput: gen/out.go\ntypes: [{type: Point}]", "without directories"},
		{"output not go", "package: ./x\noutput: out.txt\ntypes: [{type: Point}]", "must be a .go file"},
		{"missing type", "package: ./x\ntypes: [{constructors: [NewPoint]}]", "type is required"},
		{"unexported type", "package: ./x\ntypes: [{type: point}]", "not an exported identifier"},
		{"duplicate type", "package: ./x\ntypes: [{type: Point}, {type: Point}]", "listed twice"},
		{"bad constructor", "package: ./x\ntypes: [{type: Point, constructors: [new-point]}]", "constructors"},
		{"duplicate method", "package: ./x\ntypes: [{type: Point, exclude_methods: [String, String]}]", "String listed twice"},
		{"shared static", "package: ./x\ntypes: [{type: A, static_fields: [V]}, {type: B, static_fields: [V]}]", "already a static member of A"},
		{"invalid yaml", "package: [", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "klass.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "klass.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" && strings.HasPrefix(found, root) {
		t.Fatalf("found unexpected config %s", found)
	}

	want := filepath.Join(root, "klass.yml")
	if err := os.WriteFile(want, []byte("package: ./x\ntypes: [{type: T}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, err = FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != want {
		t.Errorf("FindConfig = %q, want %q", found, want)
	}

	cfg, err := LoadConfig(found)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Types[0].Type != "T" {
		t.Errorf("type = %q, want T", cfg.Types[0].Type)
	}
}
