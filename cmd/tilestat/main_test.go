package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rmmv-tiles/internal/config"
	"rmmv-tiles/internal/core"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus/hooks/test"
)

type fixedSource struct{ data []int }

func (s fixedSource) Name() string       { return "fixed" }
func (s fixedSource) Size() core.Size    { return core.Size{W: 2, H: 1} }
func (s fixedSource) Data() []int        { return s.data }
func (s fixedSource) Flags() []int       { return nil }
func (s fixedSource) Wrap() (bool, bool) { return false, false }

func TestCategoryHistogram(t *testing.T) {
	// planes 0-3 of a 2x1 map, then shadow and region
	src := fixedSource{data: []int{2048, 0, 1, 1600, 0, 0, 0, 0, 15, 3}}
	got := categoryHistogram(src)
	if len(got) != 3 || got["A1"] != 1 || got["B"] != 1 || got["A5"] != 1 {
		t.Fatalf("histogram = %v", got)
	}
}

func TestRunSamples(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := config.NewConfig()
	cfg.Params = config.KVList{"w=12", "h=10"}
	jobs, err := buildJobs(cfg, 2, "", log)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2*len(core.SourceNames()) || jobs[0].name != "lake#1" {
		t.Fatalf("jobs = %d, first %q", len(jobs), jobs[0].name)
	}

	results := run(cfg, jobs, 3, log)
	for i, r := range results {
		if r.Name != jobs[i].name {
			t.Fatalf("result %d is %q, want %q", i, r.Name, jobs[i].name)
		}
		if r.Err != "" || r.Width != 12 || r.Height != 10 {
			t.Fatalf("%s: %+v", r.Name, r)
		}
		if r.Primitives == 0 || r.Layers["lower0"] == 0 {
			t.Fatalf("%s painted nothing: %v", r.Name, r.Layers)
		}
		sum := 0
		for _, n := range r.Layers {
			sum += n
		}
		if sum != r.Primitives {
			t.Fatalf("%s: layer sum %d != %d", r.Name, sum, r.Primitives)
		}
	}
	if results[0].Primitives != run(cfg, jobs[:1], 1, log)[0].Primitives {
		t.Fatal("painting is not deterministic")
	}
}

func TestBuildJobsProject(t *testing.T) {
	log, _ := test.NewNullLogger()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"data/Map001.json":   `{"width":2,"height":1,"tilesetId":1,"scrollType":0,"data":[2048,2048,0,0,0,0,0,0,0,0,0,0]}`,
		"data/Tilesets.json": `[null,{"id":1,"name":"T","flags":[],"tilesetNames":["","","","","","","","",""]}]`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := config.NewConfig()
	cfg.Project = dir

	jobs, err := buildJobs(cfg, 1, "1, 9", log)
	if err != nil {
		t.Fatal(err)
	}
	results := run(cfg, jobs, 2, log)
	if len(results) != 2 || results[0].Err != "" || results[0].Categories["A1"] != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[1].Err == "" {
		t.Fatal("missing map should report an error")
	}

	if _, err := buildJobs(cfg, 1, "x", log); err == nil {
		t.Fatal("bad map id should fail")
	}
	if jobs, _ := buildJobs(cfg, 1, "", log); len(jobs) != 1 || jobs[0].name != "data/Map001.json" {
		t.Fatalf("default map job = %+v", jobs)
	}
}

func TestWriters(t *testing.T) {
	results := []result{
		{Name: "a", Width: 1, Height: 1, Layers: map[string]int{"lower0": 4}, Primitives: 4, Categories: map[string]int{"A2": 1}},
		{Name: "b", Err: "boom"},
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, results); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("json lines = %q", lines)
	}
	var back result
	if err := json.Unmarshal([]byte(lines[0]), &back); err != nil {
		t.Fatal(err)
	}
	if back.Name != "a" || back.Layers["lower0"] != 4 {
		t.Fatalf("decoded = %+v", back)
	}

	buf.Reset()
	if err := writeTable(&buf, results); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "lower0=4") || !strings.Contains(out, "A2=1") || !strings.Contains(out, "error: boom") {
		t.Fatalf("table = %q", out)
	}
}
