// Package telemetry records how the scene is shaped and how it moves.
package telemetry

import (
	"fmt"
	"math"

	"github.com/gekko3d/lumen/morph/shape"
	"gonum.org/v1/gonum/stat"
)

// LayerStats summarises the distributions of one layer's target buffers.
type LayerStats struct {
	Name  string
	Count int

	HeightMean float64 // formed y
	HeightStd  float64
	RadiusMean float64 // formed distance from the trunk axis
	RadiusStd  float64
	RadiusMax  float64
	ShellMean  float64 // scattered distance from the origin
	ShellMin   float64
	ShellMax   float64
}

func Describe(l *shape.Layer) LayerStats {
	s := LayerStats{Name: l.Name, Count: l.Count}
	if l.Count == 0 {
		return s
	}

	heights := make([]float64, l.Count)
	radii := make([]float64, l.Count)
	shell := make([]float64, l.Count)
	s.ShellMin = math.Inf(1)
	for i := 0; i < l.Count; i++ {
		j := 3 * i
		x, y, z := float64(l.Tree[j]), float64(l.Tree[j+1]), float64(l.Tree[j+2])
		heights[i] = y
		radii[i] = math.Hypot(x, z)
		sx, sy, sz := float64(l.Scatter[j]), float64(l.Scatter[j+1]), float64(l.Scatter[j+2])
		shell[i] = math.Sqrt(sx*sx + sy*sy + sz*sz)

		s.RadiusMax = math.Max(s.RadiusMax, radii[i])
		s.ShellMin = math.Min(s.ShellMin, shell[i])
		s.ShellMax = math.Max(s.ShellMax, shell[i])
	}

	s.HeightMean, s.HeightStd = stat.MeanStdDev(heights, nil)
	s.RadiusMean, s.RadiusStd = stat.MeanStdDev(radii, nil)
	s.ShellMean = stat.Mean(shell, nil)
	if l.Count == 1 {
		s.HeightStd, s.RadiusStd = 0, 0
	}
	return s
}

func (s LayerStats) String() string {
	return fmt.Sprintf("n=%d y=%.2f±%.2f r=%.2f±%.2f (max %.2f) shell=%.2f [%.2f, %.2f]",
		s.Count, s.HeightMean, s.HeightStd, s.RadiusMean, s.RadiusStd, s.RadiusMax,
		s.ShellMean, s.ShellMin, s.ShellMax)
}
