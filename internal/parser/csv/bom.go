package csv

import "strings"

// utf8BOM is stripped from the first header cell if present. cp1252 exports
// never carry one, but re-saved UTF-8 snapshots from spreadsheet tools do.
const utf8BOM = "\uFEFF"

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
// It also removes the mojibake form "ï»¿" that appears when a UTF-8 file with
// BOM is decoded as cp1252.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	headers[0] = strings.TrimPrefix(headers[0], "\u00ef\u00bb\u00bf")
	return headers
}
