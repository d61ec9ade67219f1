package richtext

import "strings"

// extensionOverrides maps MIME types whose subtype is not a usable file
// extension.
var extensionOverrides = map[string]string{
	"image/svg+xml":          "svg",
	"application/javascript": "js",
	"text/plain":             "txt",
}

// ExtensionForMIME returns the file extension for a MIME type, without a
// leading dot. Parameters are ignored and the subtype is used when no
// override exists.
func ExtensionForMIME(mime string) string {
	mime, _, _ = strings.Cut(mime, ";")
	mime = strings.ToLower(strings.TrimSpace(mime))
	if ext, ok := extensionOverrides[mime]; ok {
		return ext
	}
	_, sub, ok := strings.Cut(mime, "/")
	if !ok {
		return mime
	}
	// vendor types such as "vnd.vegalite.v4+json" keep the suffix.
	if i := strings.LastIndex(sub, "+"); i >= 0 {
		return sub[i+1:]
	}
	return sub
}
