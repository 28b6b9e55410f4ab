package simconfig

// VisOptions mirrors the option schema of the vis.js network renderer. The
// simulator passes it through unchanged.
type VisOptions struct {
	Layout      VisLayout      `json:"layout"`
	Nodes       VisNodes       `json:"nodes"`
	Edges       VisEdges       `json:"edges"`
	Interaction VisInteraction `json:"interaction"`
}

type VisLayout struct {
	Hierarchical VisHierarchical `json:"hierarchical"`
}

type VisHierarchical struct {
	Direction string `json:"direction"`
}

type VisNodes struct {
	BorderWidth         int                `json:"borderWidth"`
	BorderWidthSelected int                `json:"borderWidthSelected"`
	Color               VisNodeColor       `json:"color"`
	Font                VisFont            `json:"font"`
	Shape               string             `json:"shape"`
	ShapeProperties     VisShapeProperties `json:"shapeProperties"`
}

type VisNodeColor struct {
	Border     string `json:"border"`
	Background string `json:"background"`
	Highlight  string `json:"highlight"`
	Hover      string `json:"hover"`
}

type VisFont struct {
	Color string `json:"color"`
}

type VisShapeProperties struct {
	BorderRadius int `json:"borderRadius"`
}

type VisEdges struct {
	Color  VisEdgeColor `json:"color"`
	Smooth VisSmooth    `json:"smooth"`
}

type VisEdgeColor struct {
	Color     string `json:"color"`
	Highlight string `json:"highlight"`
	Hover     string `json:"hover"`
}

type VisSmooth struct {
	Enabled   bool    `json:"enabled"`
	Type      string  `json:"type"`
	Roundness float64 `json:"roundness"`
}

type VisInteraction struct {
	Hover    bool `json:"hover"`
	ZoomView bool `json:"zoomView"`
}

// DefaultVisOptions returns the styling used for the table dependency graph.
func DefaultVisOptions() VisOptions {
	return VisOptions{
		Layout: VisLayout{
			Hierarchical: VisHierarchical{Direction: "LR"},
		},
		Nodes: VisNodes{
			BorderWidth:         8,
			BorderWidthSelected: 12,
			Color: VisNodeColor{
				Border:     "#e1e1e1",
				Background: "#e1e1e1",
				Highlight:  "#2dcc97",
				Hover:      "#cbcbcb",
			},
			Font:            VisFont{Color: "#000000"},
			Shape:           "box",
			ShapeProperties: VisShapeProperties{BorderRadius: 0},
		},
		Edges: VisEdges{
			Color: VisEdgeColor{
				Color:     "#355c80",
				Highlight: "#2dcc97",
				Hover:     "#00b180",
			},
			Smooth: VisSmooth{
				Enabled:   true,
				Type:      "cubicBezier",
				Roundness: 0.6,
			},
		},
		Interaction: VisInteraction{
			Hover:    true,
			ZoomView: false,
		},
	}
}
