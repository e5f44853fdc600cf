package ui

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"rmmv-tiles/internal/core"
)

// Subject is anything the HUD can inspect. Setters are discovered through
// core.IntParameterSetter and core.BoolParameterSetter.
type Subject interface {
	Name() string
	Parameters() core.ParameterSnapshot
}

type controlState struct {
	control core.ParameterControl
	value   string

	intValue  int
	boolValue bool
	hasValue  bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// controls tracks the adjustable parameters of a Subject and applies clicks
// to them.
type controls struct {
	states []controlState
	ints   core.IntParameterSetter
	bools  core.BoolParameterSetter
}

func newControls(subject Subject) *controls {
	c := &controls{}
	if provider, ok := subject.(core.ParameterControlsProvider); ok {
		list := provider.ParameterControls()
		c.states = make([]controlState, len(list))
		for i, ctrl := range list {
			c.states[i] = controlState{control: ctrl, value: "--"}
		}
	}
	c.ints, _ = subject.(core.IntParameterSetter)
	c.bools, _ = subject.(core.BoolParameterSetter)
	return c
}

func title(subject Subject) string {
	if subject == nil || subject.Name() == "" {
		return "Controls"
	}
	return fmt.Sprintf("%s controls", subject.Name())
}

// refresh copies current values out of snap.
func (c *controls) refresh(snap core.ParameterSnapshot) {
	params := map[string]core.Parameter{}
	for _, group := range snap.Groups {
		for _, p := range group.Params {
			params[p.Key] = p
		}
	}
	for i := range c.states {
		state := &c.states[i]
		state.hasValue = false
		state.value = "--"
		p, ok := params[state.control.Key]
		if !ok {
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(p.Value)
			if err != nil {
				continue
			}
			state.intValue = parsed
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeBool:
			parsed, err := strconv.ParseBool(p.Value)
			if err != nil {
				continue
			}
			state.boolValue = parsed
			state.value = onOff(parsed)
			state.hasValue = true
		}
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// intTarget returns the value one step in direction, clamped to the
// control's bounds.
func intTarget(ctrl core.ParameterControl, current, direction int) int {
	step := int(math.Round(ctrl.Step))
	if step <= 0 {
		step = 1
	}
	target := current + direction*step
	if ctrl.HasMin {
		target = max(target, int(math.Round(ctrl.Min)))
	}
	if ctrl.HasMax {
		target = min(target, int(math.Round(ctrl.Max)))
	}
	return target
}

func (c *controls) canAdjust(state *controlState, direction int) bool {
	if state == nil || !state.hasValue || direction == 0 {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		return c.ints != nil && intTarget(state.control, state.intValue, direction) != state.intValue
	case core.ParamTypeBool:
		// bools have a single toggle button
		return c.bools != nil && direction > 0
	}
	return false
}

func (c *controls) adjust(state *controlState, direction int) bool {
	if !c.canAdjust(state, direction) {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		target := intTarget(state.control, state.intValue, direction)
		if !c.ints.SetIntParameter(state.control.Key, target) {
			return false
		}
		state.intValue = target
		state.value = strconv.Itoa(target)
	case core.ParamTypeBool:
		target := !state.boolValue
		if !c.bools.SetBoolParameter(state.control.Key, target) {
			return false
		}
		state.boolValue = target
		state.value = onOff(target)
	}
	return true
}

// layout places one row per control in a panel of the given width.
func (c *controls) layout(width int) {
	for i := range c.states {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		if c.states[i].control.Type == core.ParamTypeBool {
			minus = image.Rectangle{}
		}
		c.states[i].top = top
		c.states[i].minusRect = minus
		c.states[i].plusRect = plus
	}
}

// click applies a press at panel coordinates (x, y) and reports whether a
// value changed.
func (c *controls) click(x, y int) bool {
	pt := image.Pt(x, y)
	for i := range c.states {
		state := &c.states[i]
		if pt.In(state.minusRect) {
			return c.adjust(state, -1)
		}
		if pt.In(state.plusRect) {
			return c.adjust(state, 1)
		}
	}
	return false
}

// bottom is the y coordinate below the last control row.
func (c *controls) bottom() int {
	return controlsTop + len(c.states)*lineHeight
}

// infoLines lists the read-only parameters and group summaries of snap.
func infoLines(snap core.ParameterSnapshot, skip []controlState) []string {
	adjustable := map[string]bool{}
	for _, s := range skip {
		adjustable[s.control.Key] = true
	}
	var lines []string
	for _, group := range snap.Groups {
		header := group.Name
		if group.Summary != "" {
			header += ": " + group.Summary
		}
		lines = append(lines, header)
		for _, p := range group.Params {
			if adjustable[p.Key] {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %s %s", p.Label, p.Value))
		}
	}
	return lines
}

const (
	panelPadding   = 12
	lineHeight     = 36
	infoHeight     = 16
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	controlsTop    = panelPadding + headerBaseline + 14
)
