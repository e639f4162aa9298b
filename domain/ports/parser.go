package ports

import "github.com/zendwasm/zendini/domain/entities"

// ManifestParser decodes an ini manifest document.
type ManifestParser interface {
	// Parse decodes data into a manifest. filename is used for diagnostics only.
	Parse(filename string, data []byte) (*entities.Manifest, error)
}
