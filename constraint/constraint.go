package constraint

import (
	"math"

	"github.com/akmonengine/feather2d/actor"
)

// ComputeRestitution averages both restitutions
func ComputeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

func ComputeFriction(matA, matB actor.Material) float64 {
	// geometric mean: a frictionless surface stays frictionless against anything
	return math.Sqrt(math.Max(matA.Friction, 0) * math.Max(matB.Friction, 0))
}
