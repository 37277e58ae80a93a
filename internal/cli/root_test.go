package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/julianstephens/questlog/internal/records"
)

func TestBreadcrumb(t *testing.T) {
	if got := Breadcrumb(); got != "Home" {
		t.Errorf("Breadcrumb() = %q", got)
	}
	if got := Breadcrumb("Campaigns", "Curse of Strahd"); got != "Home › Campaigns › Curse of Strahd" {
		t.Errorf("Breadcrumb() = %q", got)
	}
}

func TestLineConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		c := NewLineConfirmer(strings.NewReader(tt.input), &out)
		got, err := c.Confirm("Delete campaign \"Strahd\"?")
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "[y/N]") {
			t.Errorf("prompt not written, got %q", out.String())
		}
	}
}

func TestConfirmerYesSkipsPrompt(t *testing.T) {
	ctx := &Context{Confirm: records.ConfirmFunc(func(string) (bool, error) {
		t.Fatal("prompt should not be shown with --yes")
		return false, nil
	})}

	ok, err := ctx.Confirmer(true).Confirm("anything")
	if err != nil || !ok {
		t.Errorf("Confirmer(true) = %v, %v", ok, err)
	}
}

func TestStdoutDefaultsAndOverride(t *testing.T) {
	var buf bytes.Buffer
	ctx := &Context{Out: &buf}
	if ctx.Stdout() != &buf {
		t.Error("Stdout() should return Out when set")
	}
	if (&Context{}).Stdout() == nil {
		t.Error("Stdout() should default to os.Stdout")
	}
}
