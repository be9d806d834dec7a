package studio

import "pcbooth/internal/scene"

// Position is a preset board orientation the studio can rotate the rendered
// object into.
type Position string

const (
	PositionTop    Position = "TOP"
	PositionBottom Position = "BOTTOM"
	PositionRear   Position = "REAR"
)

// AllPositions lists the preset positions in declaration order. Every camera
// is rigged for all of them so jobs can override positions the configuration
// left disabled.
var AllPositions = []Position{PositionTop, PositionBottom, PositionRear}

// Rotation returns the board rotation for the position.
func (p Position) Rotation() scene.Euler {
	switch p {
	case PositionBottom:
		return scene.Degrees(0, 180, 0)
	case PositionRear:
		return scene.Degrees(0, 0, 180)
	default:
		return scene.Euler{}
	}
}

// Suffix is the single-letter filename marker, e.g. the T in topT_paper_black.
func (p Position) Suffix() string {
	if len(p) == 0 {
		return ""
	}
	return string(p[0])
}

func (p Position) String() string {
	return string(p)
}
