package manifest

import (
	"testing"

	"github.com/matzehuels/depfilter/pkg/catalog"
)

func TestCheck(t *testing.T) {
	cat := catalog.New(map[string]string{"torch": "2.1.0"})

	skip, ok := Check(Classify("  torch==2.0.0  "), cat)
	if !ok {
		t.Fatal("Check() = false, want collision")
	}
	want := Skip{Spec: "torch==2.0.0", Name: "torch", Version: "2.1.0"}
	if skip != want {
		t.Errorf("Check() = %+v, want %+v", skip, want)
	}

	if _, ok := Check(Classify("numpy>=1.20"), cat); ok {
		t.Error("Check(numpy) = true, want false")
	}
	if _, ok := Check(Classify("# torch"), cat); ok {
		t.Error("Check(comment) = true, want false")
	}
	if _, ok := Check(Classify("torch"), nil); ok {
		t.Error("Check with nil catalog = true, want false")
	}
}

func TestSkipString(t *testing.T) {
	tests := []struct {
		skip Skip
		want string
	}{
		{
			Skip{Spec: "torch==2.0.0", Name: "torch", Version: "2.1.0"},
			"torch==2.0.0 (vendor provides torch==2.1.0)",
		},
		{
			Skip{Spec: "torchvision", Name: "torchvision", Version: "0.16.0", Group: "gpu"},
			"torchvision (vendor provides torchvision==0.16.0) [from gpu]",
		},
	}
	for _, tt := range tests {
		if got := tt.skip.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestResultLossy(t *testing.T) {
	r := &Result{}
	if r.Lossy() {
		t.Error("Lossy() = true for empty result")
	}
	r.Placeholder = []string{"tool"}
	if !r.Lossy() {
		t.Error("Lossy() = false with placeholders")
	}
}
