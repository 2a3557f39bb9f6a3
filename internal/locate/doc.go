// Package locate reduces reverse geocoder responses to Country/Area/Place
// records and aggregates them into a per-directory Tree.
//
// Area and Place come from ordered fallback passes over the address
// attributes. The first pass whose leading attribute is present sets Area, and
// Place is the first later candidate in that same pass that is present. Every
// value is folded to ASCII with periods removed.
//
// The Accumulator keeps areas and places in first-seen order and counts how
// many photos resolved to each place.
package locate
