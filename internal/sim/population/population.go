package population

import (
	"fmt"

	"cellseed.ai/internal/sim/model"
)

// Population owns every agent of a run. During setup it only grows; removal is
// the simulation loop's business.
type Population struct {
	agents []*model.Agent
	nextID int
}

func New() *Population { return &Population{} }

// Create instantiates an agent from t, assigns the next ID, places it and appends it.
func (p *Population) Create(t *model.Template, pos model.Vec3) *model.Agent {
	a := t.Instantiate(p.nextID)
	a.Pos = pos
	p.nextID++
	p.agents = append(p.agents, a)
	return a
}

// Restore appends an already-built agent keeping its ID (snapshot resume).
func (p *Population) Restore(a *model.Agent) error {
	if a == nil {
		return fmt.Errorf("restore: nil agent")
	}
	if a.ID < p.nextID {
		return fmt.Errorf("restore: agent id %d already issued (next %d)", a.ID, p.nextID)
	}
	p.agents = append(p.agents, a)
	p.nextID = a.ID + 1
	return nil
}

func (p *Population) Len() int { return len(p.agents) }

func (p *Population) At(i int) *model.Agent { return p.agents[i] }

// All returns the agents in creation order. The slice is a copy; the agents are not.
func (p *Population) All() []*model.Agent {
	return append([]*model.Agent(nil), p.agents...)
}

// Since returns agents created after the population had length mark.
func (p *Population) Since(mark int) []*model.Agent {
	if mark < 0 {
		mark = 0
	}
	if mark >= len(p.agents) {
		return nil
	}
	return append([]*model.Agent(nil), p.agents[mark:]...)
}

func (p *Population) CountByType() map[int]int {
	out := map[int]int{}
	for _, a := range p.agents {
		out[a.TypeCode()]++
	}
	return out
}
