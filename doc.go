// Package shapefetch reads data of unverified shape (network responses, files)
// and narrows it into records whose required fields are proven present.
//
//   - Decoded bodies are held as Untrusted: an opaque value with no accessors.
//   - A Shape lists required field names in order; collection fields carry an
//     element Shape.
//   - Validate / ValidateCollection turn an Untrusted into Record values, or
//     return a *Failure describing the first expectation that was not met
//     (JSON Pointer, code, field, element index).
//   - Fetcher performs one read through a Transport and validates the result.
//
// Presence is checked, not truthiness: a field holding 0, "", false or null
// counts as present.
//
// Typical usage:
//
//	deck := shapefetch.MustShape("deck", shapefetch.Fields("userId", "title", "description", "id")...)
//	f := shapefetch.NewFetcher(httptransport.MustNew(cfg))
//	decks, err := f.FetchValidated(ctx, "/api/decks", "decks", deck)
//	if fl, ok := shapefetch.AsFailure(err); ok {
//		log.Printf("%s at %s", fl.Code(), fl.Path)
//	}
package shapefetch
