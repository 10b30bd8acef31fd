package storage

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]`)

// sanitizeFileName splits name into a base stripped to [A-Za-z0-9] and its
// extension (leading dot kept, lower-cased, alphanumeric only). Accents are
// folded first so "résumé.PDF" becomes "resume" and ".pdf".
func sanitizeFileName(name string) (base, ext string) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		name = ""
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}

	ext = path.Ext(name)
	base = strings.TrimSuffix(name, ext)

	ext = strings.ToLower(nonAlnumRe.ReplaceAllString(ext, ""))
	if ext != "" {
		ext = "." + ext
	}
	base = nonAlnumRe.ReplaceAllString(base, "")

	return base, ext
}

// objectKey builds "<folder>/<uuid>-<base><ext>". The random prefix keeps keys
// unique even for identical file names.
func objectKey(folder Folder, id uuid.UUID, fileName string) string {
	base, ext := sanitizeFileName(fileName)
	return string(folder) + "/" + id.String() + "-" + base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
