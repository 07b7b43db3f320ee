package shapefile_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	shapefetch "github.com/reoring/shapefetch"
	"github.com/reoring/shapefetch/shapefile"
)

func TestLoad(t *testing.T) {
	s, err := shapefile.Load("testdata/deck.yaml")
	require.NoError(t, err)
	require.Equal(t, "deck", s.Name())

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"userId", "title", "description", "id", "cards"}, names)

	cards := s.Fields()[4]
	require.True(t, cards.IsCollection())
	require.Equal(t, "card", cards.Elem.Name())
	require.Equal(t, 2, cards.Elem.Len())
}

func TestLoad_ErrorHasFileAndLine(t *testing.T) {
	_, err := shapefile.Load("testdata/bad_field.yaml")
	var se *shapefile.Error
	require.True(t, errors.As(err, &se))
	require.Equal(t, 4, se.Line)
	require.Equal(t, "testdata/bad_field.yaml:4: field must be a name or a mapping", err.Error())
	require.ErrorIs(t, err, shapefetch.ErrInvalidShape)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		line int
	}{
		"empty":         {"", 1},
		"not a mapping": {"- a\n- b\n", 1},
		"no fields":     {"name: deck\n", 1},
		"unknown key":   {"name: deck\nfields: [a]\nextra: 1\n", 3},
		"duplicate":     {"name: deck\nfields:\n  - a\n  - b\n  - a\n", 5},
		"nameless":      {"name: deck\nfields:\n  - elements: {name: c, fields: [x]}\n", 3},
		"bad elements":  {"name: deck\nfields:\n  - name: cards\n    elements: [x]\n", 4},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := shapefile.Parse([]byte(tc.doc))
			var se *shapefile.Error
			require.True(t, errors.As(err, &se), "got %v", err)
			require.Equal(t, tc.line, se.Line)
		})
	}
}

func TestParse_ValidatesPayload(t *testing.T) {
	s, err := shapefile.Parse([]byte("name: deck\nfields: [userId, title]\n"))
	require.NoError(t, err)
	u, err := shapefetch.DecodeBytes([]byte(`{"decks":[{"userId":1}]}`))
	require.NoError(t, err)
	_, err = shapefetch.ValidateCollection(u, "decks", s)
	require.True(t, shapefetch.IsKind(err, shapefetch.KindElementInvalid))
}
