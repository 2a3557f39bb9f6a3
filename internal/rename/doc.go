// Package rename turns an aggregated location tree into a directory name and
// applies it on disk.
//
// Strategy is pure: given a tree and the directory's date-stamped original
// name it returns "<original> <Country> - <area (place, place)>, <area>",
// listing only places seen at least MinCount times. Renamer performs the
// filesystem rename, honours dry-run, and refuses to overwrite.
package rename
