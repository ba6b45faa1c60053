package templates

import (
	"embed"
	"io/fs"
)

// starterFiles embeds files written by config:init --catalog.
//
//go:embed starter
var starterFiles embed.FS

// StarterCatalogPath is the catalog's path inside StarterFS.
const StarterCatalogPath = "starter/catalog.yaml"

// StarterFS returns the embedded starter files.
func StarterFS() fs.FS {
	return starterFiles
}

// StarterCatalog returns the starter catalog contents.
func StarterCatalog() []byte {
	data, err := starterFiles.ReadFile(StarterCatalogPath)
	if err != nil {
		panic(err) // embedded at build time
	}
	return data
}
