package screen

// State is what a list screen knows at a given moment. Exactly one of
// loading, error or loaded holds once the fetch settles.
type State struct {
	Loading bool     `json:"loading"`
	Error   bool     `json:"error"`
	Coffees []Coffee `json:"coffees"`
}

func initialState() State {
	return State{Loading: true, Coffees: []Coffee{}}
}

func loadedState(coffees []Coffee) State {
	if coffees == nil {
		coffees = []Coffee{}
	}
	return State{Coffees: coffees}
}

func failedState() State {
	return State{Error: true, Coffees: []Coffee{}}
}

func (s State) clone() State {
	out := s
	out.Coffees = append([]Coffee(nil), s.Coffees...)
	if out.Coffees == nil {
		out.Coffees = []Coffee{}
	}
	return out
}
