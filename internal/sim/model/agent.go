package model

type Agent struct {
	ID       int
	Pos      Vec3
	Template *Template
	Custom   CustomData

	Dead  bool
	Phase PhaseCode
}

// TypeCode returns the originating template's type code, or -1 for orphans.
func (a *Agent) TypeCode() int {
	if a.Template == nil {
		return -1
	}
	return a.Template.Type
}

func (a *Agent) TypeName() string {
	if a.Template == nil {
		return ""
	}
	return a.Template.Name
}
