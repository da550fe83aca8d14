package render

type visOptions struct {
	Interaction visInteraction `json:"interaction"`
	Physics     visPhysics     `json:"physics"`
	Nodes       visNodes       `json:"nodes"`
	Edges       visEdges       `json:"edges"`
	Layout      *visLayout     `json:"layout,omitempty"`
}

type visInteraction struct {
	Hover               bool `json:"hover"`
	DragNodes           bool `json:"dragNodes"`
	HoverConnectedEdges bool `json:"hoverConnectedEdges"`
	NavigationButtons   bool `json:"navigationButtons"`
}

type visPhysics struct {
	Enabled       bool             `json:"enabled"`
	Stabilization visStabilization `json:"stabilization"`
	BarnesHut     visBarnesHut     `json:"barnesHut"`
}

type visStabilization struct {
	Enabled    bool `json:"enabled"`
	Iterations int  `json:"iterations"`
}

type visBarnesHut struct {
	GravitationalConstant float64 `json:"gravitationalConstant"`
	CentralGravity        float64 `json:"centralGravity"`
	SpringLength          float64 `json:"springLength"`
	SpringConstant        float64 `json:"springConstant"`
	Damping               float64 `json:"damping"`
	AvoidOverlap          float64 `json:"avoidOverlap"`
}

type visNodes struct {
	Shape string  `json:"shape"`
	Font  visFont `json:"font"`
}

type visFont struct {
	Size  int    `json:"size"`
	Color string `json:"color,omitempty"`
}

type visEdges struct {
	Smooth visSmooth `json:"smooth"`
}

type visSmooth struct {
	Type string `json:"type"`
}

type visLayout struct {
	RandomSeed int64 `json:"randomSeed"`
}

// layoutOptions is the attraction/repulsion simulation the document runs.
// The layout settles after stabilizationIterations rounds.
func layoutOptions(stabilizationIterations int, seed *int64) visOptions {
	opts := visOptions{
		Interaction: visInteraction{
			Hover:               true,
			DragNodes:           true,
			HoverConnectedEdges: true,
			NavigationButtons:   true,
		},
		Physics: visPhysics{
			Enabled: true,
			Stabilization: visStabilization{
				Enabled:    true,
				Iterations: stabilizationIterations,
			},
			BarnesHut: visBarnesHut{
				GravitationalConstant: -2500,
				CentralGravity:        0.15,
				SpringLength:          130,
				SpringConstant:        0.02,
				Damping:               0.6,
				AvoidOverlap:          0.7,
			},
		},
		Nodes: visNodes{
			Shape: "dot",
			Font:  visFont{Size: 14, Color: "black"},
		},
		Edges: visEdges{
			Smooth: visSmooth{Type: "dynamic"},
		},
	}
	if seed != nil {
		opts.Layout = &visLayout{RandomSeed: *seed}
	}
	return opts
}
