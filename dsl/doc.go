// Package dsl provides a fluent builder for shapefetch shapes.
//
// Overview
//   - Object(name) starts a builder; chain Require/Field/Collection and finish
//     with Build or MustBuild.
//   - Field(name).Required() declares one plain field; Field(name).Of(elem)
//     declares a collection whose elements must match elem.
//   - Errors (empty or duplicate names, missing element shapes) are collected
//     while chaining and reported once by Build.
//
// Example
//
//	card := dsl.Object("card").Require("front", "back").MustBuild()
//	deck := dsl.Object("deck").
//		Require("userId", "title", "description", "id").
//		Collection("cards", card).
//		MustBuild()
package dsl
