// Package alloy back-calculates ferrosilicon make-up quantities: how much
// extra iron dilutes the formed silicon down to a named FeSi grade.
package alloy

// GradePercents are the named FeSi grades (silicon content, % by mass).
var GradePercents = []int{25, 30, 35, 40, 45}

type Grade struct {
	Percent     int     `json:"percent"`
	TotalG      float64 `json:"total_g"`
	RequiredFeG float64 `json:"required_fe_g"`
	ExtraFeG    float64 `json:"extra_fe_g"`
}

// Calculate returns one entry per grade, or nil when no silicon formed
// (the caller reports that as "not applicable").
func Calculate(siG, feG float64) []Grade {
	if siG <= 0 {
		return nil
	}
	out := make([]Grade, 0, len(GradePercents))
	for _, p := range GradePercents {
		totalG := siG / (float64(p) / 100.0)
		requiredFeG := totalG - siG
		extraFeG := requiredFeG - feG
		if extraFeG < 0 {
			extraFeG = 0
		}
		out = append(out, Grade{
			Percent:     p,
			TotalG:      totalG,
			RequiredFeG: requiredFeG,
			ExtraFeG:    extraFeG,
		})
	}
	return out
}
