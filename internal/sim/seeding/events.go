package seeding

import "cellseed.ai/internal/sim/model"

const (
	EventPlaced   = "placed"
	EventImported = "imported"
	EventSkipped  = "skipped"
)

// Event is one setup step worth keeping: an agent placed or imported, or a
// record skipped.
type Event struct {
	Kind       string     `json:"kind"`
	AgentID    int        `json:"agent_id"`
	Type       int        `json:"type"`
	TypeName   string     `json:"type_name,omitempty"`
	Pos        [3]float64 `json:"pos"`
	ExternalID int        `json:"external_id,omitempty"`
	Source     string     `json:"source,omitempty"`
	Line       int        `json:"line,omitempty"`
}

// EventSink receives setup events. Write failures are logged and otherwise ignored.
type EventSink interface {
	WriteSetupEvent(e Event) error
}

func agentEvent(kind string, a *model.Agent) Event {
	return Event{
		Kind:     kind,
		AgentID:  a.ID,
		Type:     a.TypeCode(),
		TypeName: a.TypeName(),
		Pos:      [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z},
	}
}
