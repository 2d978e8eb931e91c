package migrations

import "embed"

// Files holds the NNNN_name.sql schema files. Applied files are checksummed, so edit
// history by adding a new file rather than changing an old one.
//
//go:embed *.sql
var Files embed.FS
