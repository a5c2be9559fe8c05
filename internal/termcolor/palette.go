package termcolor

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// cubeLevels are the channel values of the 6x6x6 colour cube (indexes 16-231).
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// Nearest256 maps an RGB colour to the closest xterm 256-colour index in the
// colour cube or the grey ramp, measured in CIE Lab. The 16 system colours
// are never chosen since terminals redefine them. Ties go to the cube.
func Nearest256(r, g, b uint8) uint8 {
	target := toColorful(r, g, b)

	ri, gi, bi := nearestLevel(r), nearestLevel(g), nearestLevel(b)
	cube := 16 + 36*ri + 6*gi + bi
	cubeDist := target.DistanceLab(toColorful(cubeLevels[ri], cubeLevels[gi], cubeLevels[bi]))

	grey := greyStep(r, g, b)
	v := uint8(8 + 10*grey)
	greyDist := target.DistanceLab(toColorful(v, v, v))

	if greyDist < cubeDist {
		return uint8(232 + grey)
	}
	return uint8(cube)
}

// Palette256 returns the RGB value of a cube or grey-ramp index. Indexes
// below 16 report ok=false.
func Palette256(index uint8) (r, g, b uint8, ok bool) {
	switch {
	case index >= 232:
		v := 8 + 10*(index-232)
		return v, v, v, true
	case index >= 16:
		i := index - 16
		return cubeLevels[i/36], cubeLevels[(i/6)%6], cubeLevels[i%6], true
	default:
		return 0, 0, 0, false
	}
}

func nearestLevel(c uint8) int {
	best, bestDiff := 0, 256
	for i, l := range cubeLevels {
		d := int(c) - int(l)
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

func greyStep(r, g, b uint8) int {
	avg := (int(r) + int(g) + int(b)) / 3
	step := (avg - 8 + 5) / 10
	if avg < 8 {
		step = 0
	}
	return min(max(step, 0), 23)
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
