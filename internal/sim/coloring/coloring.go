package coloring

import (
	"sort"
	"sync"

	"cellseed.ai/internal/sim/catalogs"
	"cellseed.ai/internal/sim/model"
)

const (
	Black = "black"
	White = "white"
	// NecroticBrown fills the nucleus of necrotic agents.
	NecroticBrown = "rgb(139,69,19)"
)

// Palette is indexed by cell_ID mod len(Palette).
var Palette = [...]string{
	"grey", "red", "yellow", "green", "blue",
	"magenta", "orange", "lime", "cyan", "hotpink",
	"peachpuff", "darkseagreen", "lightskyblue", "darkred", "goldenrod",
	"darkgreen", "darkblue",
}

// Colors is cytoplasm, unused, nucleus outline, nucleus fill.
type Colors [4]string

func (c Colors) Cytoplasm() string { return c[0] }
func (c Colors) Nucleus() string   { return c[3] }

// Painter maps agents to colors by their cell_ID custom data.
type Painter struct {
	once sync.Once
	idx  int
}

func NewPainter() *Painter { return &Painter{idx: -1} }

func (p *Painter) index(s *model.Schema) int {
	p.once.Do(func() {
		if s == nil {
			return
		}
		if i, ok := s.Index(catalogs.VarCellID); ok {
			p.idx = i
		}
	})
	return p.idx
}

// ColorOf does not modify a. Agents without a cell_ID slot render white.
func (p *Painter) ColorOf(a *model.Agent) Colors {
	out := Colors{Black, Black, Black, Black}

	interior := White
	if i := p.index(a.Custom.Schema()); i >= 0 && i < a.Custom.Len() {
		n := int(a.Custom.Scalar(i)) % len(Palette)
		if n >= 0 && n < len(Palette) {
			interior = Palette[n]
		}
	}
	out[0] = interior

	switch {
	case !a.Dead:
		out[2], out[3] = interior, interior
	case a.Phase.Necrotic():
		out[2], out[3] = NecroticBrown, NecroticBrown
	}
	return out
}

type Count struct {
	Color string
	N     int
}

// Tally counts agents per cytoplasm color, most frequent first.
func (p *Painter) Tally(agents []*model.Agent) []Count {
	m := map[string]int{}
	for _, a := range agents {
		m[p.ColorOf(a).Cytoplasm()]++
	}
	out := make([]Count, 0, len(m))
	for c, n := range m {
		out = append(out, Count{Color: c, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Color < out[j].Color
	})
	return out
}
