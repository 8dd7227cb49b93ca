package charts

// defaultColors is the qualitative palette shapes are coloured from
var defaultColors = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// Palette maps shape labels to colours. A label keeps its colour for the
// lifetime of the palette, so every chart built from one palette agrees.
type Palette struct {
	colors   []string
	assigned map[string]string
}

// NewPalette returns a palette cycling through colors, or the default set when empty
func NewPalette(colors ...string) *Palette {
	if len(colors) == 0 {
		colors = defaultColors
	}
	return &Palette{colors: colors, assigned: make(map[string]string)}
}

// Assign gives colours to labels in order, skipping labels that already have one
func (p *Palette) Assign(labels ...string) {
	for _, l := range labels {
		p.Color(l)
	}
}

// Color returns the colour of label, assigning the next free one on first use
func (p *Palette) Color(label string) string {
	if c, ok := p.assigned[label]; ok {
		return c
	}
	c := p.colors[len(p.assigned)%len(p.colors)]
	p.assigned[label] = c
	return c
}
