// Package factsage analyzes a FactSage equilibrium XML export: it groups
// the calculation pages into simulation runs, finds for each run the
// liquid-metal page with the highest Si content, the first intermetallic
// precipitates and the first slag solids, and reports the best runs as CSV.
package factsage

import (
	"encoding/xml"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ListThresholdG is the mass below which species and solids are ignored.
const ListThresholdG = 0.01

type xmlExport struct {
	Formula string    `xml:"formula,attr"`
	Header  xmlHeader `xml:"header"`
	Pages   []xmlPage `xml:"page"`
}

type xmlHeader struct {
	Reactants  []xmlReactant `xml:"reactant"`
	SpeciesDef xmlSpeciesDef `xml:"species_definition"`
	Species    []xmlSpecies  `xml:"species"`
}

type xmlSpeciesDef struct {
	Solutions []xmlSolution `xml:"solution"`
	Species   []xmlSpecies  `xml:"species"`
}

type xmlSolution struct {
	PhaseID string       `xml:"phase_id,attr"`
	State   string       `xml:"state,attr"`
	Species []xmlSpecies `xml:"species"`
}

type xmlSpecies struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Phase string `xml:"phase,attr"`
}

type xmlReactant struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	MW   string `xml:"mw,attr"`
	N    string `xml:"n,attr"`
}

type xmlPage struct {
	ID          string            `xml:"id,attr"`
	Description string            `xml:"description,attr"`
	T           string            `xml:"T,attr"`
	P           string            `xml:"P,attr"`
	Reactants   []xmlReactant     `xml:"reactant"`
	Results     []xmlResult       `xml:"result"`
	Solutions   []xmlPageSolution `xml:"solution"`
}

type xmlResult struct {
	ID string `xml:"id,attr"`
	G  string `xml:"g,attr"`
	W  string `xml:"W,attr"`
	N  string `xml:"n,attr"`
	X  string `xml:"X,attr"`
	A  string `xml:"a,attr"`
}

type xmlPageSolution struct {
	ID string `xml:"id,attr"`
	G  string `xml:"g,attr"`
}

// Page is one equilibrium calculation, reduced to what the analysis needs.
type Page struct {
	Num        int
	TC         float64
	FeG        *float64
	Phases     []Phase
	PureSolids []SolidRow
}

type Phase struct {
	Name string
	Rows []SpeciesRow
}

// SpeciesRow holds one species within a phase. W is the weight percent
// (the export stores a weight fraction).
type SpeciesRow struct {
	Name string
	G    float64
	W    float64
	N    float64
	X    float64
	A    float64
}

type SolidRow struct {
	Name string
	G    float64
	A    float64
}

// Analysis is one simulation run's summary. Nil pointers and empty slices
// are reported as "not found" by the CSV writer.
type Analysis struct {
	FeG             *float64
	BestTC          *float64
	BestSiW         *float64
	BestComp        []SpeciesRow
	StopTC          *float64
	StopPhases      []string
	SlagFirstTC     *float64
	SlagFirstPhases []string
	SlagCompBefore  []SpeciesRow
}

var (
	ftPrefixRe    = regexp.MustCompile(`^FT[a-zA-Z]+-`)
	descTempRe    = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*C`)
	latticeNameRe = regexp.MustCompile(`\b(bcc|fcc|hcp)\b`)
)

// fnum parses FactSage numerics, accepting Fortran D exponents and
// treating blanks or garbage as zero.
func fnum(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, "D", "E"))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func cleanPhaseState(raw string) string {
	return ftPrefixRe.ReplaceAllString(raw, "")
}

// ParsePages decodes the XML export into the per-page model.
func ParsePages(r io.Reader) ([]Page, error) {
	var doc xmlExport
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	phaseName := make(map[string]string)
	phaseSpecies := make(map[string][]xmlSpecies)
	for _, sol := range doc.Header.SpeciesDef.Solutions {
		phaseName[sol.PhaseID] = cleanPhaseState(sol.State)
		phaseSpecies[sol.PhaseID] = sol.Species
	}

	var solidSpecies []xmlSpecies
	for _, group := range [][]xmlSpecies{doc.Header.Species, doc.Header.SpeciesDef.Species} {
		for _, sp := range group {
			if sp.Phase == "s" {
				solidSpecies = append(solidSpecies, sp)
			}
		}
	}
	for _, sol := range doc.Header.SpeciesDef.Solutions {
		for _, sp := range sol.Species {
			if sp.Phase == "s" {
				solidSpecies = append(solidSpecies, sp)
			}
		}
	}

	reactantMeta := make(map[string]xmlReactant)
	for _, rm := range doc.Header.Reactants {
		reactantMeta[rm.ID] = rm
	}

	pages := make([]Page, 0, len(doc.Pages))
	for _, xp := range doc.Pages {
		p := Page{}
		p.Num, _ = strconv.Atoi(xp.ID)

		if t := strings.TrimSpace(xp.T); t != "" {
			p.TC = fnum(t) - 273.15
		} else if m := descTempRe.FindStringSubmatch(xp.Description); m != nil {
			p.TC = fnum(m[1])
		}

		for _, pr := range xp.Reactants {
			meta, ok := reactantMeta[pr.ID]
			if !ok || meta.Name != "Fe" {
				continue
			}
			g := fnum(pr.N) * fnum(meta.MW)
			p.FeG = &g
		}

		results := make(map[string]xmlResult, len(xp.Results))
		for _, res := range xp.Results {
			results[res.ID] = res
		}

		type phaseMass struct {
			id string
			g  float64
		}
		var phases []phaseMass
		for _, sol := range xp.Solutions {
			if g := fnum(sol.G); g >= ListThresholdG {
				phases = append(phases, phaseMass{sol.ID, g})
			}
		}
		sort.SliceStable(phases, func(i, j int) bool { return phases[i].g > phases[j].g })

		for _, pm := range phases {
			name, ok := phaseName[pm.id]
			if !ok || name == "" {
				name = "Phase-" + pm.id
			}
			ph := Phase{Name: name}
			for _, sp := range phaseSpecies[pm.id] {
				res, ok := results[sp.ID]
				if !ok {
					continue
				}
				g := fnum(res.G)
				if g < ListThresholdG {
					continue
				}
				ph.Rows = append(ph.Rows, SpeciesRow{
					Name: sp.Name,
					G:    g,
					W:    fnum(res.W) * 100,
					N:    fnum(res.N),
					X:    fnum(res.X),
					A:    fnum(res.A),
				})
			}
			sort.SliceStable(ph.Rows, func(i, j int) bool { return ph.Rows[i].G > ph.Rows[j].G })
			p.Phases = append(p.Phases, ph)
		}

		for _, sp := range solidSpecies {
			res, ok := results[sp.ID]
			if !ok {
				continue
			}
			g := fnum(res.G)
			if g < ListThresholdG {
				continue
			}
			p.PureSolids = append(p.PureSolids, SolidRow{Name: sp.Name, G: g, A: fnum(res.A)})
		}

		pages = append(pages, p)
	}
	return pages, nil
}

// GroupSimulations splits the page stream into runs: a new run starts when
// the page counter resets to 1 or the Fe charge mass jumps.
func GroupSimulations(pages []Page) [][]Page {
	const feTol = 1e-3
	var sims [][]Page
	var cur []Page
	var lastFe *float64
	for _, p := range pages {
		reset := (p.Num == 1 && len(cur) > 0)
		if !reset && lastFe != nil && p.FeG != nil && abs(*p.FeG-*lastFe) > feTol {
			reset = true
		}
		if reset {
			sims = append(sims, cur)
			cur = nil
		}
		cur = append(cur, p)
		if p.FeG != nil {
			lastFe = p.FeG
		}
	}
	if len(cur) > 0 {
		sims = append(sims, cur)
	}
	return sims
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func isMetalLiquidPhase(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "fe-liq") || strings.Contains(n, "liquid")
}

func isSlagLiquidPhase(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "slag") && strings.Contains(n, "liq")
}

func isMetalIntermetallicPhase(name string) bool {
	n := strings.ToLower(name)
	if strings.Contains(n, "liq") || strings.Contains(n, "slag") {
		return false
	}
	if latticeNameRe.MatchString(n) {
		return true
	}
	return strings.Contains(n, "fe") && strings.Contains(n, "si") && !strings.Contains(n, "o")
}

func isMetalIntermetallicPureSolid(name string) bool {
	raw := strings.ReplaceAll(name, "(s)", "")
	return strings.Contains(raw, "Fe") && strings.Contains(raw, "Si") && !strings.Contains(raw, "O")
}

func isSlagSolidPhase(name string) bool {
	n := strings.ToLower(name)
	if strings.Contains(n, "liq") {
		return false
	}
	if strings.Contains(n, "slag") {
		return true
	}
	return strings.Contains(n, "o") // oxide solids
}

func isSlagPureSolid(name string) bool {
	return strings.Contains(name, "O")
}

// AnalyzeSimulation walks one run from high to low temperature, stopping at
// the first intermetallic precipitation.
func AnalyzeSimulation(run []Page) Analysis {
	pages := make([]Page, len(run))
	copy(pages, run)
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].TC > pages[j].TC })

	out := Analysis{}
	if len(pages) > 0 {
		out.FeG = pages[0].FeG
	}

	var prevSlagComp []SpeciesRow
	type snapshot struct {
		tc   float64
		comp []SpeciesRow
		siW  float64
	}
	var collected []snapshot

	for _, pg := range pages {
		if out.SlagFirstTC == nil {
			var here []string
			for _, ph := range pg.Phases {
				if len(ph.Rows) > 0 && isSlagSolidPhase(ph.Name) {
					here = append(here, ph.Name)
				}
			}
			for _, ps := range pg.PureSolids {
				if ps.G >= ListThresholdG && isSlagPureSolid(ps.Name) {
					here = append(here, ps.Name)
				}
			}
			if len(here) > 0 {
				tc := pg.TC
				out.SlagFirstTC = &tc
				out.SlagFirstPhases = uniqueSorted(here)
				out.SlagCompBefore = prevSlagComp
			}
		}

		var metalHere []string
		for _, ph := range pg.Phases {
			if len(ph.Rows) > 0 && isMetalIntermetallicPhase(ph.Name) {
				metalHere = append(metalHere, ph.Name)
			}
		}
		for _, ps := range pg.PureSolids {
			if ps.G >= ListThresholdG && isMetalIntermetallicPureSolid(ps.Name) {
				metalHere = append(metalHere, ps.Name)
			}
		}
		if len(metalHere) > 0 {
			tc := pg.TC
			out.StopTC = &tc
			out.StopPhases = uniqueSorted(metalHere)
			break // stop at first precipitation
		}

		for _, ph := range pg.Phases {
			if isMetalLiquidPhase(ph.Name) && len(ph.Rows) > 0 {
				siW := 0.0
				for _, row := range ph.Rows {
					if row.Name == "Si" {
						siW = row.W
					}
				}
				collected = append(collected, snapshot{tc: pg.TC, comp: ph.Rows, siW: siW})
				break
			}
		}

		for _, ph := range pg.Phases {
			if isSlagLiquidPhase(ph.Name) && len(ph.Rows) > 0 {
				prevSlagComp = ph.Rows
				break
			}
		}
	}

	if len(collected) == 0 {
		return out
	}
	best := collected[0]
	for _, s := range collected[1:] {
		if s.siW > best.siW {
			best = s
		}
	}
	out.BestTC = &best.tc
	out.BestSiW = &best.siW
	out.BestComp = best.comp
	return out
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Analyze parses the export and returns the best runs, ranked by peak
// liquid-metal Si content.
func Analyze(r io.Reader, topK int) ([]Analysis, error) {
	pages, err := ParsePages(r)
	if err != nil {
		return nil, err
	}
	var results []Analysis
	for _, sim := range GroupSimulations(pages) {
		a := AnalyzeSimulation(sim)
		if a.BestSiW != nil && len(a.BestComp) > 0 {
			results = append(results, a)
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return *results[i].BestSiW > *results[j].BestSiW })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
