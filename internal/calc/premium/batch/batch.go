package batch

import (
	"fmt"

	reduce "Alutherm/internal/calc/reduce"
)

type ReduceBatchInput struct {
	Items []reduce.Input `json:"items"`
}

type ReduceBatchResult struct {
	Results []reduce.Result `json:"results"`
}

func CalculateReduce(in ReduceBatchInput) (ReduceBatchResult, error) {
	if len(in.Items) == 0 {
		return ReduceBatchResult{}, fmt.Errorf("no items")
	}
	out := ReduceBatchResult{Results: make([]reduce.Result, 0, len(in.Items))}
	for _, item := range in.Items {
		res, err := reduce.Calculate(item)
		if err != nil {
			return ReduceBatchResult{}, err
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
