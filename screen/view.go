package screen

import (
	"fmt"
	"io"
	"strings"
)

// ThumbnailURL is the logo shown on every card.
const ThumbnailURL = "http://cafe504.com/wp-content/uploads/2017/06/logo504cafe.png"

// View is the rendered form of a screen.
type View struct {
	Spinner bool   `json:"spinner"`
	Deck    []Card `json:"deck,omitempty"`
}

// Card is one swipeable card of the deck.
type Card struct {
	Thumbnail string   `json:"thumbnail"`
	Title     string   `json:"title"`
	Note      string   `json:"note"`
	Image     string   `json:"image"`
	Footer    []Footer `json:"footer"`
}

// Footer is an icon with a short caption.
type Footer struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Empty reports whether nothing would be drawn.
func (v View) Empty() bool { return !v.Spinner && len(v.Deck) == 0 }

// Render is a pure function of state: a spinner while loading, the deck once
// there is data, nothing otherwise.
func Render(s State) View {
	v := View{Spinner: s.Loading}
	if len(s.Coffees) == 0 {
		return v
	}
	v.Deck = make([]Card, 0, len(s.Coffees))
	for _, c := range s.Coffees {
		v.Deck = append(v.Deck, cardFor(c))
	}
	return v
}

func cardFor(c Coffee) Card {
	return Card{
		Thumbnail: ThumbnailURL,
		Title:     c.Brand.Name,
		Note:      c.Variety.Description,
		Image:     c.Image.URL,
		Footer: []Footer{
			{Icon: "arrow-up", Text: fmt.Sprintf("%s mts.", c.Altitude)},
			{Icon: "star", Text: c.AvgRating.String()},
			{Icon: "controller-record", Text: c.Roast},
		},
	}
}

// WriteText draws v for a terminal.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder
	if v.Spinner {
		b.WriteString("loading...\n")
	}
	for i, c := range v.Deck {
		fmt.Fprintf(&b, "[%d/%d] %s\n", i+1, len(v.Deck), c.Title)
		if c.Note != "" {
			fmt.Fprintf(&b, "      %s\n", c.Note)
		}
		if c.Image != "" {
			fmt.Fprintf(&b, "      %s\n", c.Image)
		}
		parts := make([]string, 0, len(c.Footer))
		for _, f := range c.Footer {
			parts = append(parts, fmt.Sprintf("%s %s", iconGlyph(f.Icon), f.Text))
		}
		fmt.Fprintf(&b, "      %s\n", strings.Join(parts, "  "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func iconGlyph(icon string) string {
	switch icon {
	case "arrow-up":
		return "^"
	case "star":
		return "*"
	case "controller-record":
		return "o"
	default:
		return "-"
	}
}
