package models

import "github.com/Marcello2020-dev/findreplace-mdtxt/internal/textcodec"

// Document is the decoded content of a single target file.
type Document struct {
	Path     string             // Canonical absolute path
	Text     string             // Decoded content, held as UTF-8 in memory
	Encoding textcodec.Encoding // Encoding that validated at read time
}

// MatchRecord pairs a document with its occurrence count. A record is only
// created when the count is greater than zero.
type MatchRecord struct {
	Document Document
	Count    int // Non-overlapping occurrences of the search text
}
