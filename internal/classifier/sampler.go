package classifier

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"

	"github.com/JaimeStill/iris/internal/disease"
)

// DemoConcentration is the symmetric Dirichlet parameter used in demo mode.
// Values below one favour a single dominant class.
const DemoConcentration = 0.5

type dirichlet struct {
	dist *distmv.Dirichlet
}

// NewDirichletSampler returns a Sampler drawing from a symmetric Dirichlet
// distribution over the disease classes. A nil src uses the global source.
func NewDirichletSampler(src rand.Source) Sampler {
	alpha := make([]float64, len(disease.Classes))
	for i := range alpha {
		alpha[i] = DemoConcentration
	}
	return &dirichlet{dist: distmv.NewDirichlet(alpha, src)}
}

func (d *dirichlet) Sample() []float64 {
	return d.dist.Rand(nil)
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func() []float64

func (f SamplerFunc) Sample() []float64 { return f() }
