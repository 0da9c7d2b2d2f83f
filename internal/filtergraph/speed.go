package filtergraph

import "math"

// atempo accepts ratios in [0.5, 2.0] only. Speeds outside that band are
// decomposed multiplicatively into chained stages.
const (
	tempoMin = 0.5
	tempoMax = 2.0
)

// residualTolerance decides whether the leftover factor still needs its own
// stage. It is deliberately much tighter than the 0.01 gate that decides
// whether a remap happens at all, so the stage product tracks the requested
// speed exactly.
const residualTolerance = 1e-6

// TempoStages decomposes speed into atempo stage ratios whose product equals
// speed. Every returned ratio lies in [0.5, 2.0]; for the supported speed
// range the chain is at most a handful of stages. Non-positive speed and
// exact unity produce no stages.
func TempoStages(speed float64) []float64 {
	if speed <= 0 {
		return nil
	}

	var stages []float64
	remaining := speed
	for remaining > tempoMax {
		stages = append(stages, tempoMax)
		remaining /= tempoMax
	}
	for remaining < tempoMin {
		stages = append(stages, tempoMin)
		remaining /= tempoMin
	}
	if math.Abs(remaining-1.0) > residualTolerance {
		stages = append(stages, remaining)
	}
	return stages
}
