package sweep

import (
	"fmt"

	ratio "Alutherm/internal/calc/ratio"
	chem "Alutherm/internal/chem"
)

type Input struct {
	Composition chem.Composition `json:"composition"`
	StartRatio  float64          `json:"start_ratio"`
	EndRatio    float64          `json:"end_ratio"`
	StepRatio   float64          `json:"step_ratio"`
}

type Result struct {
	Rows []ratio.Row `json:"rows"`
}

// Calculate walks the C/A range from start to end inclusive and computes
// one row per step. The full-reduction baseline is computed once and shared
// by every row; the end bound absorbs up to half a step of float drift.
func Calculate(in Input) (Result, error) {
	if in.StartRatio <= 0 || in.EndRatio <= 0 || in.StepRatio <= 0 {
		return Result{}, fmt.Errorf("invalid ratio range")
	}
	if in.StartRatio > in.EndRatio {
		return Result{}, fmt.Errorf("start ratio above end ratio")
	}
	for sym, g := range in.Composition {
		if g < 0 {
			return Result{}, fmt.Errorf("negative mass for %s", sym)
		}
	}

	baseline := ratio.Baseline(in.Composition)
	var rows []ratio.Row
	for r := in.StartRatio; r <= in.EndRatio+in.StepRatio/2; r += in.StepRatio {
		rows = append(rows, ratio.Compute(in.Composition, r, baseline))
	}
	return Result{Rows: rows}, nil
}
