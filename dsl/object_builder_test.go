package dsl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	shapefetch "github.com/reoring/shapefetch"
	"github.com/reoring/shapefetch/dsl"
)

func TestObject_Build(t *testing.T) {
	card := dsl.Object("card").Require("front", "back").MustBuild()
	deck := dsl.Object("deck").
		Require("userId", "title").
		Field("id").Required().
		Field("cards").Of(card).
		MustBuild()

	fs := deck.Fields()
	require.Len(t, fs, 4)
	require.Equal(t, "id", fs[2].Name)
	require.True(t, fs[3].IsCollection())
	require.Same(t, card, fs[3].Elem)

	u, err := shapefetch.DecodeBytes([]byte(`{"userId":1,"title":"A","id":2,"cards":[{"front":"q"}]}`))
	require.NoError(t, err)
	_, err = shapefetch.Validate(u, deck)
	f, ok := shapefetch.AsFailure(err)
	require.True(t, ok)
	require.Equal(t, "/cards/0/back", f.Path)
}

func TestObject_CollectionOf(t *testing.T) {
	s, err := dsl.Object("deck").CollectionOf("cards", dsl.Object("card").Require("front")).Build()
	require.NoError(t, err)
	require.Equal(t, "card", s.Fields()[0].Elem.Name())

	_, err = dsl.Object("deck").CollectionOf("cards", dsl.Object("card").Require("a", "a")).Build()
	require.True(t, errors.Is(err, shapefetch.ErrInvalidShape))
	require.Contains(t, err.Error(), "deck.cards")
}

func TestObject_BuildErrors(t *testing.T) {
	_, err := dsl.Object("x").Require("a").Field("a").Required().Build()
	require.ErrorIs(t, err, shapefetch.ErrInvalidShape)

	_, err = dsl.Object("x").Collection("items", nil).Build()
	require.ErrorIs(t, err, shapefetch.ErrInvalidShape)

	_, err = dsl.Object("x").Require("").Build()
	require.ErrorIs(t, err, shapefetch.ErrInvalidShape)

	require.Panics(t, func() { dsl.Object("x").Require("a", "a").MustBuild() })
}
