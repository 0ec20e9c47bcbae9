package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/tactile/pkg/errors"
	"github.com/matzehuels/tactile/pkg/pipeline"
)

func TestBuiltinPresetsValidate(t *testing.T) {
	ps := Builtin()
	if got, want := ps.Names(), []string{"dense_plan", "floor_plan", "sketch"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	for _, name := range ps.Names() {
		t.Run(name, func(t *testing.T) {
			p, err := ps.Get(name)
			if err != nil {
				t.Fatal(err)
			}
			if err := p.validate(); err != nil {
				t.Errorf("preset %s is invalid: %v", name, err)
			}
		})
	}
}

func TestGet(t *testing.T) {
	ps := Builtin()

	p, err := ps.Get("")
	if err != nil || p.Name != DefaultPreset {
		t.Errorf("Get(\"\") = %v, %v; want the default preset", p.Name, err)
	}
	if p, err := ps.Get("Sketch"); err != nil || p.Name != "sketch" {
		t.Errorf("Get(Sketch) = %v, %v", p.Name, err)
	}
	if _, err := ps.Get("photograph"); errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("Get(photograph) error = %v", err)
	}
}

func TestApplyKeepsExplicitOptions(t *testing.T) {
	p, _ := Builtin().Get("dense_plan")

	overlap := 0.0
	opts := pipeline.Options{Paper: "letter", Overlap: &overlap, NoMarks: true}
	p.Apply(&opts)

	if opts.Paper != "letter" {
		t.Errorf("Paper = %q, explicit value should win", opts.Paper)
	}
	if *opts.Overlap != 0 {
		t.Errorf("Overlap = %v, explicit zero should win", *opts.Overlap)
	}
	if opts.Grade != 2 || opts.TieBreak != "core" || opts.Target != 0.35 {
		t.Errorf("preset values not applied: %+v", opts)
	}
	if !opts.NoMarks {
		t.Error("NoMarks should stay set")
	}
}

func TestApplyCopiesOverlap(t *testing.T) {
	p, _ := Builtin().Get("floor_plan")
	var opts pipeline.Options
	p.Apply(&opts)
	*opts.Overlap = 0.5
	if *p.Overlap != 0.1 {
		t.Error("Apply should not alias the preset's overlap")
	}
}

func TestParse(t *testing.T) {
	ps, err := Parse(`
default = "site_plan"

[presets.site_plan]
description = "Site plans"
paper = "tabloid"
density_target = 0.28
overlap = 0.15

[presets.sketch]
description = "Override"
paper = "a4"
`)
	if err != nil {
		t.Fatal(err)
	}

	p, err := ps.Get("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "site_plan" || p.Paper != "tabloid" || p.Target != 0.28 || *p.Overlap != 0.15 {
		t.Errorf("site_plan = %+v", p)
	}
	if s, _ := ps.Get("sketch"); s.Paper != "a4" || s.Description != "Override" {
		t.Errorf("sketch override = %+v", s)
	}
	if _, err := ps.Get("floor_plan"); err != nil {
		t.Errorf("built-in presets should remain: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[presets.x`},
		{"unknown key", "[presets.x]\npaper_size = \"letter\""},
		{"bad paper", "[presets.x]\npaper = \"napkin\""},
		{"bad target", "[presets.x]\ndensity_target = 2.0"},
		{"bad direction", "[presets.x]\norder = [\"north\"]"},
		{"missing default", `default = "nothing"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.toml")
	if err := os.WriteFile(path, []byte("[presets.mine]\ndescription = \"Mine\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ps, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ps.Get("mine"); err != nil {
		t.Error(err)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("explicit missing file error = %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "empty"))
	ps, err = Load("")
	if err != nil {
		t.Fatalf("missing default file should fall back to built-ins: %v", err)
	}
	if len(ps.Names()) != 3 {
		t.Errorf("Names() = %v", ps.Names())
	}
}

func ExamplePreset_Apply() {
	ps := Builtin()
	p, _ := ps.Get("dense_plan")

	opts := pipeline.Options{Paper: "letter"}
	p.Apply(&opts)
	fmt.Println(opts.Paper, opts.Grade, opts.TieBreak)
	// Output: letter 2 core
}
