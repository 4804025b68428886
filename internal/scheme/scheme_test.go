package scheme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if got := len(cat.Offenses()); got != 12 {
		t.Fatalf("offenses = %d, want 12", got)
	}
	air, ok := cat.Offense("Air Raid")
	if !ok {
		t.Fatal("Air Raid missing")
	}
	if air.Family.Name != "air_raid" || air.Family.DeepCap != 15 {
		t.Fatalf("air raid family = %+v", air.Family)
	}
	if air.Formations[2].Name != "Empty Gun" {
		t.Fatalf("slot 3 = %q, want Empty Gun", air.Formations[2].Name)
	}
	if len(air.NoTraditionalRun) != 1 || air.NoTraditionalRun[0] != 3 {
		t.Fatalf("no_traditional_run = %v", air.NoTraditionalRun)
	}
	if r := air.Ranges.For(gameplan.Pass); r != (Range{Min: 60, Max: 85}) {
		t.Fatalf("pass range = %+v", r)
	}
	wc, _ := cat.Offense("West Coast")
	if wc.Family.DeepCap != 10 {
		t.Fatalf("west coast deep cap = %d, want 10", wc.Family.DeepCap)
	}
	if _, ok := cat.Offense("Nonexistent Scheme"); ok {
		t.Fatal("unexpected scheme")
	}
	def, ok := cat.Defense("Old School")
	if !ok || !def.HasFormation("Nickel") || def.HasFormation("Dime") {
		t.Fatalf("old school = %+v", def)
	}
}

func TestPassCapsAllows(t *testing.T) {
	caps := PassCaps{Quick: 45, Short: 45, Long: 40, Deep: 15, Screen: 30, PAShort: 25, PALong: 25, PADeep: 15}
	d := gameplan.PassDistribution{Quick: 45, Short: 20, Long: 10, Deep: 5, Screen: 10, PAShort: 5, PALong: 3, PADeep: 2}
	if !caps.Allows(d) {
		t.Fatal("expected distribution at the cap to be allowed")
	}
	d.Screen = 31
	if caps.Allows(d) {
		t.Fatal("expected screen over cap to be rejected")
	}
}

func TestValidateRawCollectsErrors(t *testing.T) {
	raw, err := ParseCatalog([]byte(`
families:
  balanced:
    pass_caps: {quick: 50}
offense:
  - name: Broken
    family: missing
    ranges:
      traditional_run: {min: 50, max: 40}
      option_run: {min: 0, max: 5}
      rpo: {min: 0, max: 5}
      pass: {min: 10, max: 20}
    formations:
      - {name: One}
    no_traditional_run: [6]
defense:
  - name: Empty
`))
	if err != nil {
		t.Fatal(err)
	}
	err = ValidateRaw(raw)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"catalog validation failed:",
		"families.balanced.deep_cap is required",
		"families.balanced.pass_caps.short is required",
		`offense[Broken].family "missing" is not defined`,
		"offense[Broken].ranges.traditional_run must satisfy",
		"formations must list exactly 5",
		"no_traditional_run slot 6",
		"defense[Empty].formations must not be empty",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
}

func TestValidateRawUnreachableRanges(t *testing.T) {
	raw, err := ParseCatalog(defaultCatalog)
	if err != nil {
		t.Fatal(err)
	}
	// Power Run: maxes become 30 + 10 + 15 + 25 = 80
	trMax, passMax := 30, 25
	raw.Offense[0].Ranges.TraditionalRun.Max = &trMax
	raw.Offense[0].Ranges.Pass.Max = &passMax
	err = ValidateRaw(raw)
	if err == nil || !strings.Contains(err.Error(), "admit no split summing to 100") {
		t.Fatalf("err = %v", err)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Run and Shoot": "run-and-shoot",
		"Wing-T":        "wing-t",
		" Air Raid ":    "air-raid",
		"I Option":      "i-option",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	writeFile(t, l.paths.OverridePath("Air Raid"), `
ranges:
  pass: {max: 90}
no_traditional_run: []
`)

	raw, err := l.LoadMerged()
	if err != nil {
		t.Fatal(err)
	}
	cat, err := NewCatalog(raw)
	if err != nil {
		t.Fatal(err)
	}
	air, _ := cat.Offense("Air Raid")
	if air.Ranges.Pass != (Range{Min: 60, Max: 90}) {
		t.Fatalf("pass range = %+v, want min kept and max overridden", air.Ranges.Pass)
	}
	if len(air.NoTraditionalRun) != 0 {
		t.Fatalf("no_traditional_run = %v, want cleared", air.NoTraditionalRun)
	}
	if air.Formations[2].Name != "Empty Gun" {
		t.Fatal("formations should be kept from the base catalog")
	}
	wc, _ := cat.Offense("West Coast")
	if wc.Ranges.Pass != (Range{Min: 45, Max: 70}) {
		t.Fatalf("untouched scheme changed: %+v", wc.Ranges.Pass)
	}
}

func TestRegistryReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	reg, err := NewRegistry(l)
	if err != nil {
		t.Fatal(err)
	}
	before := reg.Catalog()

	writeFile(t, l.paths.OverridePath("West Coast"), "ranges:\n  pass: {min: 90, max: 10}\n")
	if err := reg.Reload(); err == nil {
		t.Fatal("expected invalid override to fail reload")
	}
	if reg.Catalog() != before {
		t.Fatal("invalid catalog replaced the active one")
	}

	writeFile(t, l.paths.OverridePath("West Coast"), "ranges:\n  pass: {min: 40}\n")
	if err := reg.Reload(); err != nil {
		t.Fatal(err)
	}
	wc, _ := reg.Offense("West Coast")
	if wc.Ranges.Pass.Min != 40 {
		t.Fatalf("reloaded pass min = %d, want 40", wc.Ranges.Pass.Min)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	writeFile(t, path, "version: a\n")
	missing := filepath.Join(dir, "late.yaml")

	changed := make(chan []string, 4)
	w := NewWatcher([]string{path, missing}, 10*time.Millisecond, func(ps []string) { changed <- ps })
	w.Start()
	defer w.Stop()

	expect := func(want string) {
		t.Helper()
		select {
		case got := <-changed:
			if len(got) != 1 || got[0] != want {
				t.Fatalf("changed = %v, want [%s]", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("watcher did not report %s", want)
		}
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	expect(path)

	writeFile(t, missing, "x: 1\n")
	expect(missing)

	if err := os.Remove(missing); err != nil {
		t.Fatal(err)
	}
	expect(missing)

	w.Stop()
	select {
	case got := <-changed:
		t.Fatalf("unexpected change after stop: %v", got)
	default:
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w := NewWatcher(nil, time.Second, nil)
	w.Stop()
	w.Stop()
}
