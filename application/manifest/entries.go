package manifest

import (
	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/errors"
)

// Entries builds an IniEntryDef for every manifest entry, in order. Every
// invalid entry is reported in one *errors.ManifestError.
func Entries(m *entities.Manifest, source string) ([]entities.IniEntryDef, error) {
	defs := make([]entities.IniEntryDef, 0, len(m.Entries))
	var bad []*errors.EntryError

	for i, spec := range m.Entries {
		perm, err := spec.ParsedPermission()
		if err != nil {
			bad = append(bad, &errors.EntryError{Err: err, Name: spec.Name, Index: i})
			continue
		}
		def, err := entities.NewIniEntryDefString(spec.Name, spec.Default, perm)
		if err != nil {
			bad = append(bad, &errors.EntryError{Err: err, Name: spec.Name, Index: i})
			continue
		}
		defs = append(defs, def)
	}

	if len(bad) > 0 {
		return nil, &errors.ManifestError{Source: source, Entries: bad}
	}
	return defs, nil
}

// Load parses, validates and converts the manifest at path.
func Load(path string) (*entities.Manifest, []entities.IniEntryDef, error) {
	m, err := ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	if err := Validate(m); err != nil {
		return nil, nil, err
	}
	if err := ValidateDocument(m); err != nil {
		return nil, nil, err
	}
	defs, err := Entries(m, path)
	if err != nil {
		return nil, nil, err
	}
	return m, defs, nil
}
