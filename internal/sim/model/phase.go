package model

// PhaseCode identifies a life-cycle phase. Values match the PhysiCell constants
// so imported/exported populations stay comparable with existing tooling.
type PhaseCode int

const (
	PhaseKi67PositivePremitotic  PhaseCode = 0
	PhaseKi67PositivePostmitotic PhaseCode = 1
	PhaseKi67Positive            PhaseCode = 2
	PhaseKi67Negative            PhaseCode = 3
	PhaseG0G1                    PhaseCode = 4
	PhaseG0                      PhaseCode = 5
	PhaseG1                      PhaseCode = 6
	PhaseS                       PhaseCode = 10
	PhaseG2M                     PhaseCode = 11
	PhaseG2                      PhaseCode = 12
	PhaseM                       PhaseCode = 13
	PhaseLive                    PhaseCode = 14

	PhaseApoptotic        PhaseCode = 100
	PhaseNecroticSwelling PhaseCode = 101
	PhaseNecroticLysed    PhaseCode = 102
	PhaseNecrotic         PhaseCode = 103
	PhaseDebris           PhaseCode = 104
)

var phaseNames = map[PhaseCode]string{
	PhaseKi67PositivePremitotic:  "Ki67+ (premitotic)",
	PhaseKi67PositivePostmitotic: "Ki67+ (postmitotic)",
	PhaseKi67Positive:            "Ki67+",
	PhaseKi67Negative:            "Ki67-",
	PhaseG0G1:                    "G0/G1",
	PhaseG0:                      "G0",
	PhaseG1:                      "G1",
	PhaseS:                       "S",
	PhaseG2M:                     "G2/M",
	PhaseG2:                      "G2",
	PhaseM:                       "M",
	PhaseLive:                    "live",
	PhaseApoptotic:               "apoptotic",
	PhaseNecroticSwelling:        "necrotic (swelling)",
	PhaseNecroticLysed:           "necrotic (lysed)",
	PhaseNecrotic:                "necrotic",
	PhaseDebris:                  "debris",
}

func (p PhaseCode) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "custom"
}

// Necrotic reports whether p belongs to the necrotic family.
func (p PhaseCode) Necrotic() bool {
	switch p {
	case PhaseNecroticSwelling, PhaseNecroticLysed, PhaseNecrotic:
		return true
	}
	return false
}
