package factsage

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

func fmt3(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%.3f", v)
}

func fmt4(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%.4f", v)
}

// formatComp renders a phase composition as "name: wt% (a=activity)" pairs
// ordered by descending weight fraction, with the total mass appended.
func formatComp(rows []SpeciesRow) string {
	if len(rows) == 0 {
		return "not found"
	}
	sorted := make([]SpeciesRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].W > sorted[j].W })

	parts := make([]string, 0, len(sorted))
	total := 0.0
	for _, row := range sorted {
		parts = append(parts, fmt.Sprintf("%s:  %s  (a=%s)  ", row.Name, fmt3(row.W), fmt4(row.A)))
		total += row.G
	}
	return strings.Join(parts, "  |  ") + fmt.Sprintf("  |  TOTAL: %s g", fmt3(total))
}

func optNum(v *float64, format string) string {
	if v == nil {
		return "not found"
	}
	return fmt.Sprintf(format, *v)
}

func optList(names []string) string {
	if len(names) == 0 {
		return "not found"
	}
	return strings.Join(names, ", ")
}

// WriteCSV emits the ranked analysis in the report layout of the original
// workflow.
func WriteCSV(w io.Writer, results []Analysis) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Rank",
		"Fe mass (g)",
		"Best T (C)",
		"Si wt% (max)",
		"Liquid#1 composition",
		"Stopped at T",
		"First precipitates",
		"Slag first T",
		"Slag phases",
		"Slag liquid (before first solids)",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, res := range results {
		feMass := "not found"
		if res.FeG != nil {
			feMass = fmt3(*res.FeG)
		}
		siW := "not found"
		if res.BestSiW != nil {
			siW = fmt3(*res.BestSiW)
		}
		rec := []string{
			fmt.Sprintf("%d", i+1),
			feMass,
			optNum(res.BestTC, "%.2f"),
			siW,
			formatComp(res.BestComp),
			optNum(res.StopTC, "%.2f"),
			optList(res.StopPhases),
			optNum(res.SlagFirstTC, "%.2f"),
			optList(res.SlagFirstPhases),
			formatComp(res.SlagCompBefore),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
