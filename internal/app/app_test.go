package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/sortlines/internal/session"
	"github.com/kobzarvs/sortlines/internal/sortlines"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SORTLINES_CONFIG_HOME", dir)
	t.Setenv("SORTLINES_LOG_FILE", filepath.Join(dir, "sortlines.log"))
	t.Setenv("SORTLINES_STATE_HOME", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// scriptedScreen replays keys once the screen is initialized.
type scriptedScreen struct {
	tcell.SimulationScreen
	keys []tcell.Key
}

func (s *scriptedScreen) Init() error {
	if err := s.SimulationScreen.Init(); err != nil {
		return err
	}
	s.SetSize(80, 10)
	for _, k := range s.keys {
		if err := s.PostEvent(tcell.NewEventKey(k, 0, 0)); err != nil {
			return err
		}
	}
	return nil
}

func withKeys(a *App, keys ...tcell.Key) {
	a.newScreen = func() (tcell.Screen, error) {
		return &scriptedScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8"), keys: keys}, nil
	}
}

func TestRunSortsWholeFile(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "fruit.txt")
	writeFile(t, path, "pear\napple\nfig\n")

	if err := New(Options{Path: path}).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got, want := readFile(t, path), "apple\nfig\npear\n"; got != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
	if log := readFile(t, filepath.Join(dir, "sortlines.log")); !strings.Contains(log, "sort finished") {
		t.Fatalf("log = %q, want sort finished entry", log)
	}
}

func TestRunStdinToStdout(t *testing.T) {
	setupEnv(t)
	desc := true
	a := New(Options{Path: "-", Sort: SortOverrides{Descending: &desc}})
	a.stdin = strings.NewReader("a\r\nc\r\nb")
	var out bytes.Buffer
	a.stdout = &out

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got, want := out.String(), "c\r\nb\r\na"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestRunOutputLeavesSource(t *testing.T) {
	dir := setupEnv(t)
	src := filepath.Join(dir, "in.txt")
	dst := filepath.Join(dir, "out.txt")
	writeFile(t, src, "b\na\n")

	if err := New(Options{Path: src, Output: dst}).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := readFile(t, src); got != "b\na\n" {
		t.Fatalf("source = %q, want unchanged", got)
	}
	if got := readFile(t, dst); got != "a\nb\n" {
		t.Fatalf("output = %q, want %q", got, "a\nb\n")
	}
}

func TestRunKeyedSelectionsFile(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "ranked.txt")
	writeFile(t, path, "Apple 3\nOrange 1\nPineapple 2\n")
	sels := filepath.Join(dir, "sel.yaml")
	writeFile(t, sels, "- 0:6-0:7\n- 1:7-1:8\n- 2:10-2:11\n")

	if err := New(Options{Path: path, SelectionsFile: sels}).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got, want := readFile(t, path), "Orange 1\nPineapple 2\nApple 3\n"; got != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
}

func TestRunRejectsOverlap(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "c\nb\na\n")

	err := New(Options{Path: path, Specs: []string{"0:0-1:0", "0:0-2:0"}}).Run(context.Background())
	if !errors.Is(err, sortlines.ErrOverlappingRanges) {
		t.Fatalf("Run error = %v, want ErrOverlappingRanges", err)
	}
	if got := readFile(t, path); got != "c\nb\na\n" {
		t.Fatalf("file = %q, want unchanged", got)
	}
}

func TestRunProfileAndConfig(t *testing.T) {
	dir := setupEnv(t)
	writeFile(t, filepath.Join(dir, "profiles.toml"), `
[[profile]]
name = "versions"
file-types = ["*.ver"]
numeric = true
`)
	writeFile(t, filepath.Join(dir, "config.toml"), "[sort]\ndescending = true\n")

	path := filepath.Join(dir, "list.ver")
	writeFile(t, path, "a9\na10\na1\n")
	if err := New(Options{Path: path}).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got, want := readFile(t, path), "a10\na9\na1\n"; got != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
}

func TestRunExplicitConfigPath(t *testing.T) {
	dir := setupEnv(t)
	cfgPath := filepath.Join(dir, "custom.toml")
	writeFile(t, cfgPath, "[sort]\ndescending = true\n")
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "a\nb\n")

	if err := New(Options{Path: path, ConfigPath: cfgPath}).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := readFile(t, path); got != "b\na\n" {
		t.Fatalf("file = %q, want %q", got, "b\na\n")
	}
}

func TestRunPreviewAccept(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "b\na\n")

	a := New(Options{Path: path, Preview: true})
	withKeys(a, tcell.KeyTab, tcell.KeyEnter)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := readFile(t, path); got != "a\nb\n" {
		t.Fatalf("file = %q, want %q", got, "a\nb\n")
	}
}

func TestRunPreviewCancel(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "b\na\n")

	a := New(Options{Path: path, Preview: true})
	withKeys(a, tcell.KeyEscape)
	if err := a.Run(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run error = %v, want ErrCancelled", err)
	}
	if got := readFile(t, path); got != "b\na\n" {
		t.Fatalf("file = %q, want unchanged", got)
	}
}

func TestRunBadSelection(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "b\na\n")
	if err := New(Options{Path: path, LineRanges: []string{"3-1"}}).Run(context.Background()); err == nil {
		t.Fatalf("Run error = nil, want selection error")
	}
}

func TestRunAgainReusesSelections(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "d\nc\nb\na\n")

	if err := New(Options{Path: path, LineRanges: []string{"1-2"}}).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := readFile(t, path); got != "c\nd\nb\na\n" {
		t.Fatalf("first run = %q", got)
	}

	desc := true
	if err := New(Options{Path: path, Again: true, Sort: SortOverrides{Descending: &desc}}).Run(context.Background()); err != nil {
		t.Fatalf("Run again error: %v", err)
	}
	if got, want := readFile(t, path), "d\nc\nb\na\n"; got != want {
		t.Fatalf("second run = %q, want %q", got, want)
	}
}

func TestRunAgainWithoutHistory(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "fresh.txt")
	writeFile(t, path, "b\na\n")
	if err := New(Options{Path: path, Again: true}).Run(context.Background()); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("Run error = %v, want ErrNoHistory", err)
	}
}

func TestRunAgainReplaysDirectionAndLocale(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "a\nb\nc\nd\n")

	desc, locale := true, "sv"
	first := Options{Path: path, Sort: SortOverrides{Descending: &desc, Locale: &locale}}
	if err := New(first).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got, want := readFile(t, path), "d\nc\nb\na\n"; got != want {
		t.Fatalf("first run = %q, want %q", got, want)
	}

	writeFile(t, path, "a\nb\nc\nd\n")
	if err := New(Options{Path: path, Again: true}).Run(context.Background()); err != nil {
		t.Fatalf("Run again error: %v", err)
	}
	if got, want := readFile(t, path), "d\nc\nb\na\n"; got != want {
		t.Fatalf("replay = %q, want %q", got, want)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	state, ok := session.Open(filepath.Join(dir, "session.json")).GetFileState(abs)
	if !ok {
		t.Fatalf("no session state recorded for %s", abs)
	}
	if !state.Descending || state.Locale != "sv" {
		t.Fatalf("state = %+v, want descending with locale sv", state)
	}
}

func TestRunAgainFlagsOverrideHistory(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "a\nb\nc\n")

	desc := true
	if err := New(Options{Path: path, Sort: SortOverrides{Descending: &desc}}).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	asc := false
	if err := New(Options{Path: path, Again: true, Sort: SortOverrides{Descending: &asc}}).Run(context.Background()); err != nil {
		t.Fatalf("Run again error: %v", err)
	}
	if got, want := readFile(t, path), "a\nb\nc\n"; got != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
}
