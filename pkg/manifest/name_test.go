package manifest

import "testing"

func TestPackageName(t *testing.T) {
	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{"requests>=2.0", "requests", true},
		{"numpy", "numpy", true},
		{"my_pkg[extra]==1.2", "my_pkg", true},
		{"Torch==2.0.0", "torch", true},
		{"pytorch-triton-rocm==2.1.0", "pytorch-triton-rocm", true},
		{"zope.interface>=5", "zope", true},
		{"scipy ; python_version > '3.8'", "scipy", true},
		{"-r base.txt", "-r", true},
		{"--index-url https://example.com", "--index-url", true},
		{"[extra]", "", false},
		{"./local-package", "", false},
		{" numpy", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := PackageName(tt.spec)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PackageName(%q) = (%q, %v), want (%q, %v)", tt.spec, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line  string
		name  string
		isDep bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"# torch==2.0.0", "", false},
		{"   # indented comment", "", false},
		{"  torch==2.0.0  ", "torch", true},
		{"numpy>=1.20", "numpy", true},
		{"./vendored/pkg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			e := Classify(tt.line)
			if e.Raw != tt.line {
				t.Errorf("Classify(%q).Raw = %q, want original line", tt.line, e.Raw)
			}
			if e.Name != tt.name || e.IsDependency() != tt.isDep {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.line, e.Name, e.IsDependency(), tt.name, tt.isDep)
			}
		})
	}
}

func TestSpecifier(t *testing.T) {
	e := Specifier("Pillow>=10")
	if e.Name != "pillow" || e.Raw != "Pillow>=10" {
		t.Errorf("Specifier() = %+v", e)
	}
	if e := Specifier("@weird"); e.IsDependency() {
		t.Errorf("Specifier(%q) should not be a dependency", "@weird")
	}
}
