package tilemap

import (
	"fmt"
	"strconv"

	"rmmv-tiles/internal/core"
)

// Parameter keys understood by the setters below.
const (
	ParamTileWidth   = "tile_width"
	ParamTileHeight  = "tile_height"
	ParamHWrap       = "hwrap"
	ParamVWrap       = "vwrap"
	ParamRoundPixels = "round_pixels"
)

// Name identifies the renderer on the HUD.
func (s *ShaderTilemap) Name() string {
	if s.paintAll {
		return "tilemap (paint all)"
	}
	return "tilemap"
}

// Parameters captures geometry, toggles and painter counters for display.
func (s *ShaderTilemap) Parameters() core.ParameterSnapshot {
	ox, oy := s.ScrollOrigin()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Geometry",
			Params: []core.Parameter{
				intParam(ParamTileWidth, "Tile width", s.tileWidth),
				intParam(ParamTileHeight, "Tile height", s.tileHeight),
				intParam("width", "Width", s.width),
				intParam("height", "Height", s.height),
				intParam("margin", "Margin", s.margin),
				{Key: "origin", Label: "Origin", Type: core.ParamTypeFloat, Value: fmt.Sprintf("%.1f,%.1f", ox, oy)},
			},
		},
		{
			Name: "Options",
			Params: []core.Parameter{
				boolParam(ParamHWrap, "Wrap X", s.HorizontalWrap),
				boolParam(ParamVWrap, "Wrap Y", s.VerticalWrap),
				boolParam(ParamRoundPixels, "Round pixels", s.RoundPixels),
				boolParam("paint_all", "Paint all", s.paintAll),
			},
		},
		{
			Name:    "Painter",
			Summary: fmt.Sprintf("window %d,%d frame %d", s.stats.StartX, s.stats.StartY, s.animationFrame),
			Params: []core.Parameter{
				intParam("repaints", "Repaints", s.stats.Repaints),
				intParam("skipped", "Skipped", s.stats.Skipped),
				intParam("cells", "Cells", s.stats.Cells),
				intParam("primitives", "Primitives", s.stats.Primitives),
			},
		},
	}}
}

// ParameterControls lists the values the HUD may adjust.
func (s *ShaderTilemap) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: ParamTileWidth, Label: "Tile width", Type: core.ParamTypeInt, Step: 8, Min: 8, Max: 96, HasMin: true, HasMax: true},
		{Key: ParamTileHeight, Label: "Tile height", Type: core.ParamTypeInt, Step: 8, Min: 8, Max: 96, HasMin: true, HasMax: true},
		{Key: ParamHWrap, Label: "Wrap X", Type: core.ParamTypeBool},
		{Key: ParamVWrap, Label: "Wrap Y", Type: core.ParamTypeBool},
		{Key: ParamRoundPixels, Label: "Round pixels", Type: core.ParamTypeBool},
	}
}

// SetIntParameter updates tile geometry.
func (s *ShaderTilemap) SetIntParameter(key string, value int) bool {
	switch key {
	case ParamTileWidth:
		s.SetTileWidth(value)
	case ParamTileHeight:
		s.SetTileHeight(value)
	default:
		return false
	}
	return true
}

// SetBoolParameter updates a toggle and forces a repaint.
func (s *ShaderTilemap) SetBoolParameter(key string, value bool) bool {
	switch key {
	case ParamHWrap:
		s.HorizontalWrap = value
	case ParamVWrap:
		s.VerticalWrap = value
	case ParamRoundPixels:
		s.RoundPixels = value
	default:
		return false
	}
	s.Repaint(true)
	return true
}

func intParam(key, label string, v int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(v)}
}

func boolParam(key, label string, v bool) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeBool, Value: strconv.FormatBool(v)}
}
