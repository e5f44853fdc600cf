package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"rmmv-tiles/internal/config"
	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/mapdata"
	"rmmv-tiles/internal/render"
	_ "rmmv-tiles/internal/samples/lake"
	_ "rmmv-tiles/internal/samples/town"
	"rmmv-tiles/internal/tile"
	"rmmv-tiles/internal/tilemap"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// layerNames follows ShaderTilemap.Layers.
var layerNames = [...]string{"lower0", "lower1", "shadow", "lower2", "lower3", "upper0", "upper1", "upper2", "upper3"}

type job struct {
	name string
	open func() (core.Source, error)
}

type result struct {
	Name       string         `json:"name"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Layers     map[string]int `json:"layers"`
	Primitives int            `json:"primitives"`
	Categories map[string]int `json:"categories"`
	Elapsed    time.Duration  `json:"elapsedNs"`
	Err        string         `json:"error,omitempty"`
}

func main() {
	cfg := config.NewConfig()
	cfg.Bind(flag.CommandLine)
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 3, "seeds to paint per sample")
	maps := flag.String("maps", "", "comma separated map IDs to paint from -project")
	asJSON := flag.Bool("json", false, "print results as JSON lines")
	flag.Parse()
	if err := cfg.Apply(flag.CommandLine); err != nil {
		logrus.Fatal(err)
	}
	log, err := cfg.Logger()
	if err != nil {
		logrus.Fatal(err)
	}

	jobs, err := buildJobs(cfg, *seeds, *maps, log)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{"jobs": len(jobs), "workers": *workers}).Info("painting")

	start := time.Now()
	results := run(cfg, jobs, *workers, log)
	if *asJSON {
		err = writeJSON(os.Stdout, results)
	} else {
		err = writeTable(os.Stdout, results)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("done")
}

// buildJobs lists every registered sample for seeds 1..seeds, or the given
// project maps when -project is set.
func buildJobs(cfg *config.Config, seeds int, maps string, log logrus.FieldLogger) ([]job, error) {
	var jobs []job
	if cfg.Project != "" {
		fsys := os.DirFS(cfg.Project)
		for _, field := range strings.Split(maps, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("map id %q: %w", field, err)
			}
			jobs = append(jobs, job{
				name: mapdata.MapPath(id),
				open: func() (core.Source, error) { return mapdata.LoadBundle(fsys, id, log) },
			})
		}
		if len(jobs) == 0 {
			jobs = append(jobs, job{
				name: mapdata.MapPath(cfg.MapID),
				open: func() (core.Source, error) { return mapdata.LoadBundle(fsys, cfg.MapID, log) },
			})
		}
		return jobs, nil
	}

	for _, name := range core.SourceNames() {
		factory := core.Sources()[name]
		for seed := 1; seed <= max(seeds, 1); seed++ {
			params := cfg.Params.Map()
			params["seed"] = strconv.Itoa(seed)
			jobs = append(jobs, job{
				name: fmt.Sprintf("%s#%d", name, seed),
				open: func() (core.Source, error) { return factory(params), nil },
			})
		}
	}
	return jobs, nil
}

// run paints every job on its own tilemap across a worker pool. Results keep
// the job order.
func run(cfg *config.Config, jobs []job, workers int, log logrus.FieldLogger) []result {
	workers = max(workers, 1)
	ids := &core.IDAllocator{}
	results := make([]result, len(jobs))
	indices := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				results[idx] = paint(cfg, jobs[idx], ids, log)
			}
		}()
	}
	for i := range jobs {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return results
}

func paint(cfg *config.Config, j job, ids *core.IDAllocator, log logrus.FieldLogger) result {
	res := result{Name: j.name}
	start := time.Now()
	src, err := j.open()
	if err != nil {
		res.Err = err.Error()
		log.WithError(err).WithField("job", j.name).Warn("open failed")
		return res
	}

	opts := cfg.Options(render.NewLayer, log)
	opts.PaintAll = true
	opts.IDs = ids
	tm := tilemap.NewShaderTilemap(opts)
	cfg.Install(tm, src, nil)

	size := src.Size()
	res.Width, res.Height = size.W, size.H
	res.Layers = make(map[string]int, len(layerNames))
	for i, c := range render.Composites(tm.Layers()) {
		res.Layers[layerNames[i]] = c.Len()
		res.Primitives += c.Len()
	}
	res.Categories = categoryHistogram(src)
	res.Elapsed = time.Since(start)
	return res
}

// categoryHistogram counts the tile IDs of the four tile planes by category.
// Empty cells are skipped.
func categoryHistogram(src core.Source) map[string]int {
	size := src.Size()
	data := src.Data()
	n := min(4*size.W*size.H, len(data))
	out := map[string]int{}
	for _, id := range data[:n] {
		if c := tile.CategoryOf(id); c != tile.CategoryEmpty {
			out[c.String()]++
		}
	}
	return out
}

func writeJSON(w io.Writer, results []result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, results []result) error {
	for _, r := range results {
		if r.Err != "" {
			if _, err := fmt.Fprintf(w, "%-16s error: %s\n", r.Name, r.Err); err != nil {
				return err
			}
			continue
		}
		var layers []string
		for _, name := range layerNames {
			layers = append(layers, fmt.Sprintf("%s=%d", name, r.Layers[name]))
		}
		cats := make([]string, 0, len(r.Categories))
		for c, n := range r.Categories {
			cats = append(cats, fmt.Sprintf("%s=%d", c, n))
		}
		sort.Strings(cats)
		if _, err := fmt.Fprintf(w, "%-16s %3dx%-3d prims=%-6d %s | %s (%s)\n",
			r.Name, r.Width, r.Height, r.Primitives, strings.Join(layers, " "), strings.Join(cats, " "),
			r.Elapsed.Round(time.Microsecond)); err != nil {
			return err
		}
	}
	return nil
}
