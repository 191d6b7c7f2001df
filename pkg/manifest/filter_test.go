package manifest

import (
	"testing"

	"github.com/matzehuels/depfilter/pkg/backup"
	"github.com/matzehuels/depfilter/pkg/catalog"
	"github.com/matzehuels/depfilter/pkg/errors"
)

type mockFilter struct {
	typeName     string
	supportsFunc func(string) bool
}

func (m *mockFilter) Type() string { return m.typeName }
func (m *mockFilter) Supports(filename string) bool {
	if m.supportsFunc != nil {
		return m.supportsFunc(filename)
	}
	return false
}
func (m *mockFilter) Filter(path string, cat *catalog.Catalog, opts Options) (*Result, error) {
	return &Result{Type: m.typeName}, nil
}

func TestDetect(t *testing.T) {
	flat := &mockFilter{typeName: "requirements", supportsFunc: func(f string) bool { return f == "requirements.txt" }}
	structured := &mockFilter{typeName: "pyproject", supportsFunc: func(f string) bool { return f == "pyproject.toml" }}

	tests := []struct {
		name     string
		path     string
		wantType string
		wantErr  bool
	}{
		{"flat", "/project/requirements.txt", "requirements", false},
		{"structured", "app/pyproject.toml", "pyproject", false},
		{"unsupported", "setup.cfg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.path, flat, structured)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnsupported) {
					t.Errorf("Detect() code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnsupported)
				}
				return
			}
			if got.Type() != tt.wantType {
				t.Errorf("Detect() type = %q, want %q", got.Type(), tt.wantType)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if opts.OutputSuffix() != DefaultSuffix {
		t.Errorf("OutputSuffix() = %q, want %q", opts.OutputSuffix(), DefaultSuffix)
	}
	if opts.BackupPolicy() == nil {
		t.Fatal("BackupPolicy() = nil")
	}
	opts.Warn("no logger %s", "is fine")

	p := &backup.Policy{Suffix: ".bak"}
	var got string
	opts = Options{Backup: p, Suffix: ".new", Logger: func(msg string, args ...any) { got = msg }}
	if opts.BackupPolicy() != p {
		t.Error("BackupPolicy() did not return configured policy")
	}
	if opts.OutputSuffix() != ".new" {
		t.Errorf("OutputSuffix() = %q, want %q", opts.OutputSuffix(), ".new")
	}
	opts.Warn("hello")
	if got != "hello" {
		t.Errorf("Warn() forwarded %q, want %q", got, "hello")
	}
}
