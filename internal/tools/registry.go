package tools

// ID is a registered tool identifier carried in the "app" navigation
// parameter. The set is closed: routing only dispatches to IDs listed in the
// registration table below.
type ID string

const (
	IDLinkedin ID = "linkedin"
	IDKeywords ID = "keywords"
	IDResearch ID = "research"
)

// Card describes one dashboard tool entry.
type Card struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var registry = []Card{
	{
		ID:          IDLinkedin,
		Title:       "LinkedIn Analysis",
		Description: "Analyze company LinkedIn presence and generate content in their voice",
	},
	{
		ID:          IDKeywords,
		Title:       "Keyword Research",
		Description: "Advanced SEO keyword research with search volume and competitor analysis",
	},
	{
		ID:          IDResearch,
		Title:       "Company Research",
		Description: "Deep company research with Grok and Claude, including competitors",
	},
}

// Cards returns the dashboard registration table.
func Cards() []Card {
	out := make([]Card, len(registry))
	copy(out, registry)
	return out
}

// ViewTarget is the routing outcome: either the dashboard or one tool view.
type ViewTarget struct {
	Dashboard bool  `json:"dashboard"`
	Tool      *Card `json:"tool,omitempty"`
}

// Resolve maps the navigation parameter to a view. Absent or unrecognized
// values fall back to the dashboard.
func Resolve(param string) ViewTarget {
	if param == "" {
		return ViewTarget{Dashboard: true}
	}
	for i := range registry {
		if registry[i].ID == ID(param) {
			card := registry[i]
			return ViewTarget{Tool: &card}
		}
	}
	return ViewTarget{Dashboard: true}
}
