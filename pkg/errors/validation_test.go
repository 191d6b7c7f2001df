package errors

import (
	"strings"
	"testing"
)

func TestValidateManifestPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple", "requirements.txt", false},
		{"relative dir", "app/pyproject.toml", false},
		{"absolute", "/srv/app/requirements.txt", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"null byte", "req\x00.txt", true},
		{"control char", "req\n.txt", true},
		{"directory", "app/", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateManifestPath(%q) code = %v, want %v", tt.path, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		pkg     string
		wantErr bool
	}{
		{"simple", "torch", false},
		{"hyphen", "pytorch-triton-rocm", false},
		{"empty", "", true},
		{"control", "to\x07rch", true},
		{"too long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.pkg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.pkg, err, tt.wantErr)
			}
		})
	}
}
