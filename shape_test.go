package shapefetch_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	shapefetch "github.com/reoring/shapefetch"
	"github.com/reoring/shapefetch/jsonschema"
)

func TestNewShape_Rejects(t *testing.T) {
	cases := map[string][]shapefetch.Field{
		"empty name":      {shapefetch.Require("")},
		"duplicate":       {shapefetch.Require("id"), shapefetch.Require("id")},
		"collection nil":  {shapefetch.Collection("cards", nil)},
		"dup across kind": {shapefetch.Require("cards"), shapefetch.Collection("cards", deckShape)},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := shapefetch.NewShape("x", fields...)
			if !errors.Is(err, shapefetch.ErrInvalidShape) {
				t.Fatalf("want ErrInvalidShape, got %v", err)
			}
		})
	}
}

func TestMustShape_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	shapefetch.MustShape("x", shapefetch.Require(""))
}

func TestShape_FieldsIsCopy(t *testing.T) {
	fs := deckShape.Fields()
	fs[0].Name = "changed"
	if deckShape.Fields()[0].Name != "userId" {
		t.Fatalf("shape must be immutable")
	}
	if deckShape.Len() != 4 || deckShape.Name() != "deck" {
		t.Fatalf("unexpected shape %s/%d", deckShape.Name(), deckShape.Len())
	}
}

func TestShape_JSONSchema(t *testing.T) {
	card := shapefetch.MustShape("card", shapefetch.Fields("front", "back")...)
	deck := shapefetch.MustShape("deck", shapefetch.Require("title"), shapefetch.Collection("cards", card))

	got := deck.JSONSchema()
	want := &jsonschema.Schema{
		Schema: jsonschema.Draft,
		Title:  "deck",
		Type:   "object",
		Properties: map[string]*jsonschema.Schema{
			"title": {},
			"cards": {Type: "array", Items: &jsonschema.Schema{
				Title:      "card",
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{"front": {}, "back": {}},
				Required:   []string{"front", "back"},
			}},
		},
		Required: []string{"title", "cards"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}

	env := card.CollectionSchema("cards")
	if env.Required[0] != "cards" || env.Properties["cards"].Items.Title != "card" {
		t.Fatalf("unexpected envelope schema: %+v", env)
	}
}

type shapeCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Hint  string `json:"hint,omitempty"`
}

type shapeDeck struct {
	ID     int         `json:"id"`
	Title  string      `shapefetch:"name=heading"`
	Notes  string      `shapefetch:"optional"`
	Skip   string      `json:"-"`
	Cards  []shapeCard `json:"cards"`
	hidden int
}

type shapeNode struct {
	Children []shapeNode `json:"children"`
}

func TestShapeOf(t *testing.T) {
	s, err := shapefetch.ShapeOf[shapeDeck]()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"id", "heading", "cards"}, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	cards := s.Fields()[2]
	if !cards.IsCollection() || cards.Elem.Len() != 2 || cards.Elem.Name() != "shapecard" {
		t.Fatalf("unexpected collection field %+v", cards)
	}

	if _, err := shapefetch.ShapeOf[shapeNode](); !errors.Is(err, shapefetch.ErrInvalidShape) {
		t.Fatalf("recursive type: want ErrInvalidShape, got %v", err)
	}
	if _, err := shapefetch.ShapeOf[int](); !errors.Is(err, shapefetch.ErrInvalidShape) {
		t.Fatalf("non-struct: want ErrInvalidShape, got %v", err)
	}
	_ = shapeDeck{hidden: 1}
}
