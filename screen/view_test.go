package screen

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	t.Parallel()
	coffee := Coffee{
		Brand:     Brand{Name: "Cafe 504"},
		Variety:   Variety{Description: "Catuai"},
		Image:     Image{URL: "http://img/1.png"},
		Altitude:  "1450",
		AvgRating: "4.5",
		Roast:     "medium",
	}

	if v := Render(State{Loading: true}); !v.Spinner || len(v.Deck) != 0 {
		t.Fatalf("loading view=%+v", v)
	}
	if v := Render(State{Error: true}); !v.Empty() {
		t.Fatalf("error view=%+v", v)
	}
	if v := Render(State{}); !v.Empty() {
		t.Fatalf("empty view=%+v", v)
	}

	v := Render(State{Coffees: []Coffee{coffee}})
	want := Card{
		Thumbnail: ThumbnailURL,
		Title:     "Cafe 504",
		Note:      "Catuai",
		Image:     "http://img/1.png",
		Footer: []Footer{
			{Icon: "arrow-up", Text: "1450 mts."},
			{Icon: "star", Text: "4.5"},
			{Icon: "controller-record", Text: "medium"},
		},
	}
	if v.Spinner || len(v.Deck) != 1 || !reflect.DeepEqual(v.Deck[0], want) {
		t.Fatalf("view=%+v", v)
	}

	// pure: same input, same output
	if !reflect.DeepEqual(Render(State{Coffees: []Coffee{coffee}}), v) {
		t.Fatal("Render is not deterministic")
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	v := View{Deck: []Card{{
		Title: "Cafe 504", Note: "Catuai", Image: "http://img/1.png",
		Footer: []Footer{{Icon: "arrow-up", Text: "1450 mts."}, {Icon: "star", Text: "4.5"}, {Icon: "controller-record", Text: "medium"}},
	}}}
	if err := WriteText(&b, v); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := b.String()
	for _, want := range []string{"[1/1] Cafe 504", "Catuai", "^ 1450 mts.", "* 4.5", "o medium"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	b.Reset()
	_ = WriteText(&b, View{Spinner: true})
	if b.String() != "loading...\n" {
		t.Fatalf("spinner output=%q", b.String())
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()
	var c struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":1450,"b":"4.5","c":null}`), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.A != "1450" || c.B != "4.5" || c.C != "" {
		t.Fatalf("got %+v", c)
	}
	if err := json.Unmarshal([]byte(`{"a":true}`), &c); err == nil {
		t.Fatal("expected error for boolean")
	}
	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"a":1450,"b":4.5,"c":null}` {
		t.Fatalf("Marshal=%s", out)
	}
}

func TestNumber_LenientStringsStayQuoted(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"+1200", ".5", "NaN", "Inf", "1_0", "0x1p4", "1450 m"} {
		var n Number
		if err := json.Unmarshal([]byte(`"`+raw+`"`), &n); err != nil {
			t.Fatalf("Unmarshal %q: %v", raw, err)
		}
		out, err := json.Marshal(Coffee{Altitude: n})
		if err != nil {
			t.Fatalf("Marshal %q: %v", raw, err)
		}
		var back Coffee
		if err := json.Unmarshal(out, &back); err != nil {
			t.Fatalf("re-Unmarshal %s: %v", out, err)
		}
		if back.Altitude != n {
			t.Fatalf("altitude %q came back as %q", raw, back.Altitude)
		}
	}

	out, err := json.Marshal(struct{ A Number }{"-12.5e3"})
	if err != nil || string(out) != `{"A":-12.5e3}` {
		t.Fatalf("Marshal=%s err=%v", out, err)
	}
}
