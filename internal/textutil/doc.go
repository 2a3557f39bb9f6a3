// Package textutil provides the text normalization used to turn geocoder
// attributes into directory name fragments.
//
// Transliterate folds accented and ligature characters to ASCII,
// NormalizeLabel additionally strips periods from a raw attribute, and
// SanitizeFileName and SanitizeFragment make a value safe to embed in a
// directory name.
package textutil
