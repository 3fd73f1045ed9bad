package viewer

import (
	gomath "math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/windflag/pkg/math"
)

// Action is a viewer control.
type Action int

const (
	ActionNone Action = iota
	ActionWider
	ActionNarrower
	ActionTaller
	ActionShorter
	ActionMoreIterations
	ActionFewerIterations
	ActionRebuild
	ActionToggleRotate
	ActionNextFlag
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionMoveNear
	ActionMoveFar
	ActionLongerPole
	ActionShorterPole
	ActionCycleColor
	ActionCyclePoleColor
)

var keyActions = map[sdl.Scancode]Action{
	sdl.SCANCODE_RIGHT:        ActionWider,
	sdl.SCANCODE_LEFT:         ActionNarrower,
	sdl.SCANCODE_UP:           ActionTaller,
	sdl.SCANCODE_DOWN:         ActionShorter,
	sdl.SCANCODE_EQUALS:       ActionMoreIterations,
	sdl.SCANCODE_MINUS:        ActionFewerIterations,
	sdl.SCANCODE_R:            ActionRebuild,
	sdl.SCANCODE_SPACE:        ActionToggleRotate,
	sdl.SCANCODE_TAB:          ActionNextFlag,
	sdl.SCANCODE_J:            ActionMoveLeft,
	sdl.SCANCODE_L:            ActionMoveRight,
	sdl.SCANCODE_I:            ActionMoveUp,
	sdl.SCANCODE_K:            ActionMoveDown,
	sdl.SCANCODE_U:            ActionMoveNear,
	sdl.SCANCODE_O:            ActionMoveFar,
	sdl.SCANCODE_RIGHTBRACKET: ActionLongerPole,
	sdl.SCANCODE_LEFTBRACKET:  ActionShorterPole,
	sdl.SCANCODE_C:            ActionCycleColor,
	sdl.SCANCODE_V:            ActionCyclePoleColor,
}

// Slider ranges and steps.
const (
	MinScale  = 0.2
	MaxScale  = 3.0
	ScaleStep = 0.1

	MaxIterations = 16

	MoveStep = 1.0

	MinPoleScale  = 0.1
	MaxPoleScale  = 5.0
	PoleScaleStep = 0.1
)

// Palette is the colour cycle for flags and poles.
var Palette = []uint32{0xc1ffc1, 0xff6961, 0x779ecb, 0xfdfd96, 0x999999, 0x333333}

// Panel holds the slider values of the control panel.
type Panel struct {
	ScaleX, ScaleY float64
	Selected       int // Flag the position, pole and colour controls act on
}

// Apply moves a scale slider. It reports whether the value changed.
func (p *Panel) Apply(a Action) bool {
	x, y := p.ScaleX, p.ScaleY
	switch a {
	case ActionWider:
		x += ScaleStep
	case ActionNarrower:
		x -= ScaleStep
	case ActionTaller:
		y += ScaleStep
	case ActionShorter:
		y -= ScaleStep
	default:
		return false
	}
	x, y = clampScale(x), clampScale(y)
	if x == p.ScaleX && y == p.ScaleY {
		return false
	}
	p.ScaleX, p.ScaleY = x, y
	return true
}

// Iterations returns n adjusted by an iteration action, kept in
// [0, MaxIterations].
func (p *Panel) Iterations(a Action, n int) int {
	switch a {
	case ActionMoreIterations:
		n++
	case ActionFewerIterations:
		n--
	}
	return max(0, min(n, MaxIterations))
}

// Select advances the selected flag, wrapping at n flags.
func (p *Panel) Select(n int) {
	if n <= 0 {
		p.Selected = 0
		return
	}
	p.Selected = (p.Selected + 1) % n
}

// Move returns pos shifted by a move action. ok is false for other actions.
func (p *Panel) Move(a Action, pos math.Vec3) (next math.Vec3, ok bool) {
	var d math.Vec3
	switch a {
	case ActionMoveLeft:
		d.X = -MoveStep
	case ActionMoveRight:
		d.X = MoveStep
	case ActionMoveUp:
		d.Y = MoveStep
	case ActionMoveDown:
		d.Y = -MoveStep
	case ActionMoveNear:
		d.Z = MoveStep
	case ActionMoveFar:
		d.Z = -MoveStep
	default:
		return pos, false
	}
	return pos.Add(d), true
}

// PoleScale returns scale adjusted by a pole action, kept in
// [MinPoleScale, MaxPoleScale]. changed is false when nothing moved.
func (p *Panel) PoleScale(a Action, scale float64) (next float64, changed bool) {
	switch a {
	case ActionLongerPole:
		next = scale + PoleScaleStep
	case ActionShorterPole:
		next = scale - PoleScaleStep
	default:
		return scale, false
	}
	next = gomath.Round(next/PoleScaleStep) * PoleScaleStep
	next = max(MinPoleScale, min(next, MaxPoleScale))
	return next, next != scale
}

// NextColor returns the palette entry after c, or the first entry when c is
// not in the palette.
func NextColor(c uint32) uint32 {
	for i, pc := range Palette {
		if pc == c {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}

// clampScale keeps a slider value in range, rounded to the slider step.
func clampScale(v float64) float64 {
	v = gomath.Round(v/ScaleStep) * ScaleStep
	return max(MinScale, min(v, MaxScale))
}
