package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the code page of the NTSB export.
const DefaultEncoding = "cp1252"

// LookupEncoding maps a user-facing encoding name to a decoder. An empty
// name, "utf-8" and "utf8" mean no transcoding and return nil.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "cp1252", "windows-1252", "windows1252":
		return charmap.Windows1252, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "latin9", "iso-8859-15", "iso8859-15":
		return charmap.ISO8859_15, nil
	case "cp850", "ibm850":
		return charmap.CodePage850, nil
	default:
		return nil, fmt.Errorf("csv: unsupported encoding %q", name)
	}
}

// decodingReader wraps r so that its bytes are decoded from the named code
// page into UTF-8.
func decodingReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
