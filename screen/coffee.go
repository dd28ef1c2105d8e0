package screen

import (
	"encoding/json"
)

// Coffee is one item of GET /coffees, reduced to what the deck shows.
type Coffee struct {
	ID        string  `json:"id,omitempty"`
	Brand     Brand   `json:"brand"`
	Variety   Variety `json:"variety"`
	Image     Image   `json:"image"`
	Altitude  Number  `json:"altitude"`
	AvgRating Number  `json:"avg_rating"`
	Roast     string  `json:"roast"`
}

type Brand struct {
	Name string `json:"name"`
}

type Variety struct {
	Description string `json:"description"`
}

type Image struct {
	URL string `json:"url"`
}

// Number accepts a JSON number, a numeric string or null. The backend is
// not consistent about quoting altitude and rating.
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = Number(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f.String())
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("null"), nil
	}
	if n.isJSONNumber() {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// isJSONNumber reports whether n can be written bare. Strings such as "+1",
// ".5" or "NaN" parse as floats but are not JSON numbers and stay quoted.
func (n Number) isJSONNumber() bool {
	if n == "" || (n[0] != '-' && (n[0] < '0' || n[0] > '9')) {
		return false
	}
	return json.Valid([]byte(n))
}

// String returns the value as received.
func (n Number) String() string { return string(n) }
