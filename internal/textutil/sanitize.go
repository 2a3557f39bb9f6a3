package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// fragmentReplacer drops the separators a generated directory name is built from.
var fragmentReplacer = strings.NewReplacer(
	"(", "",
	")", "",
	",", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. Runs of whitespace collapse to one space, and
// trailing dots are dropped because SMB shares reject them.
func SanitizeFileName(name string) string {
	name = strings.Join(strings.Fields(fileNameReplacer.Replace(name)), " ")
	return strings.TrimRight(name, ". ")
}

// SanitizeFragment cleans one component of a generated directory name. On top
// of SanitizeFileName it removes parentheses and commas, which delimit places
// and areas in the name.
func SanitizeFragment(value string) string {
	return SanitizeFileName(fragmentReplacer.Replace(value))
}
