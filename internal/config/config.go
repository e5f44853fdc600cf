// Package config holds the settings shared by the viewer binaries: command-line
// flags, optionally overlaid by a config file and RMMV_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"rmmv-tiles/internal/core"
	"rmmv-tiles/internal/mapdata"
	"rmmv-tiles/internal/render"
	"rmmv-tiles/internal/tilemap"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvPrefix prefixes environment overrides: -tile-width becomes
// RMMV_TILE_WIDTH.
const EnvPrefix = "RMMV"

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Map splits the entries at their first '='. Entries without one are skipped.
func (l KVList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = parts[1]
	}
	return out
}

// Config represents the command-line parameters for the viewers.
type Config struct {
	Sample  string
	Project string
	MapID   int
	Seed    int64
	Params  KVList

	TileWidth    int
	TileHeight   int
	ScreenWidth  int
	ScreenHeight int
	Margin       int

	HWrap       bool
	VWrap       bool
	RoundPixels bool
	PaintAll    bool

	ScrollSpeed float64
	TPS         int
	Scale       int

	LogLevel   string
	LogFile    string
	ConfigFile string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sample:       "lake",
		MapID:        1,
		TileWidth:    tilemap.DefaultTileSize,
		TileHeight:   tilemap.DefaultTileSize,
		ScreenWidth:  tilemap.DefaultScreenWidth,
		ScreenHeight: tilemap.DefaultScreenHeight,
		Margin:       tilemap.DefaultMargin,
		ScrollSpeed:  4,
		TPS:          60,
		Scale:        1,
		LogLevel:     "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sample, "sample", c.Sample, "generated sample map to show")
	fs.StringVar(&c.Project, "project", c.Project, "RPG Maker MV project folder; overrides -sample")
	fs.IntVar(&c.MapID, "map", c.MapID, "map ID to load from -project")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "sample seed (0 keeps the sample default)")
	fs.Var(&c.Params, "set", "sample parameter in key=value form (repeatable)")

	fs.IntVar(&c.TileWidth, "tile-width", c.TileWidth, "tile width in pixels")
	fs.IntVar(&c.TileHeight, "tile-height", c.TileHeight, "tile height in pixels")
	fs.IntVar(&c.ScreenWidth, "screen-width", c.ScreenWidth, "screen width in pixels")
	fs.IntVar(&c.ScreenHeight, "screen-height", c.ScreenHeight, "screen height in pixels")
	fs.IntVar(&c.Margin, "margin", c.Margin, "painted margin around the screen in pixels")

	fs.BoolVar(&c.HWrap, "hwrap", c.HWrap, "force horizontal looping")
	fs.BoolVar(&c.VWrap, "vwrap", c.VWrap, "force vertical looping")
	fs.BoolVar(&c.RoundPixels, "round-pixels", c.RoundPixels, "floor the scroll origin")
	fs.BoolVar(&c.PaintAll, "paint-all", c.PaintAll, "paint the whole map once instead of a window")

	fs.Float64Var(&c.ScrollSpeed, "scroll-speed", c.ScrollSpeed, "scroll speed in pixels per tick")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Scale, "scale", c.Scale, "window scale multiplier")

	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "logrus level")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "rotate logs into this file instead of stderr")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "config file (yaml, toml, json, ...)")
}

// Apply fills flags the user did not set on the command line. RMMV_*
// environment variables win over the config file; a .env file in the working
// directory only adds variables that are not already set. Call it after
// fs.Parse.
func (c *Config) Apply(fs *flag.FlagSet) error {
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if !explicit["config"] && v.IsSet("config") {
		c.ConfigFile = v.GetString("config")
	}
	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", c.ConfigFile, err)
		}
	}

	var errs []error
	fs.VisitAll(func(f *flag.Flag) {
		if explicit[f.Name] || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Logger builds a logrus logger at the configured level. With LogFile set,
// JSON lines go to a size-rotated file.
func (c *Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if c.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

// SampleParams returns the -set overrides plus the seed when one was given.
func (c *Config) SampleParams() map[string]string {
	params := c.Params.Map()
	if c.Seed != 0 {
		params["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	return params
}

// Source opens the configured map: a project map when -project is set,
// otherwise a registered sample.
func (c *Config) Source(log logrus.FieldLogger) (core.Source, error) {
	if c.Project != "" {
		b, err := mapdata.LoadBundle(os.DirFS(c.Project), c.MapID, log)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	factory, ok := core.Sources()[c.Sample]
	if !ok {
		return nil, fmt.Errorf("unknown sample %q (available: %s)", c.Sample, strings.Join(core.SourceNames(), ", "))
	}
	return factory(c.SampleParams()), nil
}

// Options returns tilemap options for this configuration.
func (c *Config) Options(newLayer tilemap.LayerFactory, log logrus.FieldLogger) tilemap.Options {
	return tilemap.Options{
		PaintAll:     c.PaintAll,
		ScreenWidth:  c.ScreenWidth,
		ScreenHeight: c.ScreenHeight,
		Margin:       c.Margin,
		TileWidth:    c.TileWidth,
		TileHeight:   c.TileHeight,
		NewLayer:     newLayer,
		Logger:       log,
	}
}

type bitmapSource interface {
	Bitmaps() []tilemap.Bitmap
}

// Pages returns the tileset pages of src, or synthetic pages sized for the
// configured tiles when src carries none.
func (c *Config) Pages(src core.Source) []tilemap.Bitmap {
	if b, ok := src.(bitmapSource); ok {
		return b.Bitmaps()
	}
	return syntheticPages(c.TileWidth, c.TileHeight)
}

func syntheticPages(tileWidth, tileHeight int) []tilemap.Bitmap {
	pages := make([]tilemap.Bitmap, 9)
	for set := range pages {
		pages[set] = render.SyntheticSheet(set, tileWidth, tileHeight)
	}
	return pages
}

// Install loads src into s together with its pages and the configured
// toggles, then repaints. convert maps pages to the renderer's image type and
// may be nil. Synthetic pages are rebuilt whenever the tile size changes.
func (c *Config) Install(s *tilemap.ShaderTilemap, src core.Source, convert func([]tilemap.Bitmap) []tilemap.Bitmap) {
	if convert == nil {
		convert = func(p []tilemap.Bitmap) []tilemap.Bitmap { return p }
	}
	s.SetSource(src)
	s.HorizontalWrap = s.HorizontalWrap || c.HWrap
	s.VerticalWrap = s.VerticalWrap || c.VWrap
	s.RoundPixels = c.RoundPixels
	s.PageSource = nil
	if _, ok := src.(bitmapSource); !ok {
		s.PageSource = func(tw, th int) []tilemap.Bitmap { return convert(syntheticPages(tw, th)) }
	}
	s.Bitmaps = convert(c.Pages(src))
	s.Refresh()
}
