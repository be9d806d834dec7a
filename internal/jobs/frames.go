package jobs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pcbooth/internal/errs"
	"pcbooth/internal/scene"
)

// framePoints is the resolved FRAMES parameter: the frame numbers to render
// and whether the scene's own animation has to be restored for them. "start"
// and "end" tokens map onto the stashed animation span.
type framePoints struct {
	frames    []int
	animation bool
	start     int
	end       int
}

// parseFramePoints resolves the FRAMES tokens against the stashed animation
// span. An empty token list means one render of the default frame with no
// suffix and no animation restore.
func parseFramePoints(jobName string, tokens []string, defaultFrame int, stash scene.AnimationStash) (framePoints, error) {
	if len(tokens) == 0 {
		return framePoints{frames: []int{defaultFrame}}, nil
	}

	points := framePoints{
		animation: true,
		start:     stash.Start,
		end:       stash.End,
	}
	seen := make(map[int]struct{}, len(tokens))
	for _, token := range tokens {
		var frame int
		switch strings.ToLower(strings.TrimSpace(token)) {
		case "start":
			frame = stash.Start
		case "end":
			frame = stash.End
		default:
			value, err := strconv.Atoi(strings.TrimSpace(token))
			if err != nil {
				return framePoints{}, errs.Wrap(errs.ErrInvalidParameter, jobName, "parse parameters",
					"FRAMES: expected start, end, or a frame number, got "+strconv.Quote(token), nil)
			}
			frame = value
		}
		if _, duplicate := seen[frame]; duplicate {
			continue
		}
		seen[frame] = struct{}{}
		points.frames = append(points.frames, frame)
	}
	sort.Ints(points.frames)
	return points, nil
}

// suffix names a rendered frame point: _start and _end for the span ends,
// the zero-padded frame number otherwise. Default-frame renders carry no
// suffix.
func (p framePoints) suffix(frame int) string {
	if !p.animation {
		return ""
	}
	switch frame {
	case p.start:
		return "_start"
	case p.end:
		return "_end"
	}
	return fmt.Sprintf("_%04d", frame)
}
