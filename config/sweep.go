package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ScottSallinen/lfrbench/generator"
)

var validate = validator.New()

// Sweep is the parameter grid of a batch. Sizes are either listed, or spread logarithmically from N0.
type Sweep struct {
	Runs int `yaml:"runs" validate:"gte=1"`

	Sizes          []int `yaml:"sizes" validate:"omitempty,dive,gte=1"`
	N0             int   `yaml:"n0" validate:"gte=0"`
	Decades        int   `yaml:"decades" validate:"gte=0"`
	StepsPerDecade int   `yaml:"stepsPerDecade" validate:"gte=0"`

	Mus []float64 `yaml:"mus" validate:"min=1,dive,gte=0,lte=1"`

	MinDeg        int     `yaml:"minDeg" validate:"gte=1"`
	MaxDegDivisor int     `yaml:"maxDegDivisor" validate:"gte=1"` // maxDeg = n / divisor
	DegExp        float64 `yaml:"degExp" validate:"lt=0"`

	MinCom        int     `yaml:"minCom" validate:"gte=1"`
	MaxComDivisor int     `yaml:"maxComDivisor" validate:"gte=1"` // maxCom = n / divisor
	ComExp        float64 `yaml:"comExp" validate:"lt=0"`

	// Both community bounds are multiplied by the overlap factor.
	ScaleCommunitiesByOverlap bool `yaml:"scaleCommunitiesByOverlap"`
	// Every node is an overlap candidate even when the factor is 1 (it shows in the label as on<n>).
	OverlapAllNodes bool `yaml:"overlapAllNodes"`

	Generators []string `yaml:"generators" validate:"min=1,dive,oneof=Orig EM Native"`
	Algorithms []string `yaml:"algorithms" validate:"dive,oneof=Infomap Louvain"`
	Measures   []string `yaml:"measures" validate:"dive,oneof=NMI AR"`
}

// DefaultSweep is the clustering benchmark grid.
func DefaultSweep() Sweep {
	return Sweep{
		Runs:          10,
		Sizes:         []int{1000, 10000, 100000, 1000000},
		Mus:           []float64{0.2, 0.4, 0.6},
		MinDeg:        10,
		MaxDegDivisor: 20,
		DegExp:        -2,
		MinCom:        20,
		MaxComDivisor: 20,
		ComExp:        -1,
		Generators:    []string{"Orig", "EM", "Native"},
		Algorithms:    []string{"Infomap", "Louvain"},
		Measures:      []string{"NMI", "AR"},
	}
}

// GenerateOnlySweep is the large-network generation grid: 10^7 to 10^8 in thirds of a decade.
func GenerateOnlySweep() Sweep {
	s := DefaultSweep()
	s.Runs = 5
	s.Sizes = nil
	s.N0, s.Decades, s.StepsPerDecade = 10000000, 1, 3
	s.ScaleCommunitiesByOverlap = true
	s.OverlapAllNodes = true
	s.Algorithms, s.Measures = nil, nil
	return s
}

// LoadSweep reads YAML over base; keys absent from the file keep base's value.
func LoadSweep(path string, base Sweep) (Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	s := base
	if err := yaml.Unmarshal(data, &s); err != nil {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Sweep) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid sweep: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if len(s.Sizes) == 0 && s.N0 < 1 {
		return errors.New("invalid sweep: either sizes or n0 is required")
	}
	return nil
}

// Network sizes of the sweep, ascending as listed or generated.
func (s *Sweep) NetworkSizes() []int {
	if len(s.Sizes) > 0 {
		return s.Sizes
	}
	if s.StepsPerDecade == 0 {
		return []int{s.N0}
	}
	out := make([]int, 0, s.Decades*s.StepsPerDecade+1)
	for i := 0; i <= s.Decades*s.StepsPerDecade; i++ {
		out = append(out, int(float64(s.N0)*math.Pow(10, float64(i)/float64(s.StepsPerDecade))))
	}
	return out
}

// Params of one network of the sweep.
func (s *Sweep) Params(n int, mu float64, run int, overlapFactor int) generator.Params {
	p := generator.Params{
		N:             n,
		MinDeg:        s.MinDeg,
		MaxDeg:        n / s.MaxDegDivisor,
		DegExp:        s.DegExp,
		MinCom:        s.MinCom,
		MaxCom:        n / s.MaxComDivisor,
		ComExp:        s.ComExp,
		Mu:            mu,
		Run:           run,
		OverlapFactor: overlapFactor,
	}
	if s.OverlapAllNodes || overlapFactor > 1 {
		p.OverlapNodes = n
	}
	if s.ScaleCommunitiesByOverlap {
		p.MinCom *= overlapFactor
		p.MaxCom *= overlapFactor
	}
	return p
}
