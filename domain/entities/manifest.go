package entities

// Manifest declares the ini entries of one extension module.
type Manifest struct {
	// Module is the extension name, used in logs only.
	Module string `json:"module,omitempty" yaml:"module,omitempty" toml:"module" hcl:"module,optional" jsonschema:"description=Extension module name"`

	// ModuleNumber is the engine module number the entries belong to.
	ModuleNumber int32 `json:"module_number" yaml:"module_number" toml:"module_number" hcl:"module_number,optional" validate:"gte=0" jsonschema:"minimum=0"`

	Entries []EntrySpec `json:"entries" yaml:"entries" toml:"entry" hcl:"entry,block" validate:"dive"`
}

// EntrySpec is the declarative form of an IniEntryDef.
type EntrySpec struct {
	Name string `json:"name" yaml:"name" toml:"name" hcl:"name,label" validate:"required" jsonschema:"required,minLength=1,maxLength=65535"`

	Default string `json:"default,omitempty" yaml:"default" toml:"default" hcl:"default,optional" jsonschema:"maxLength=65535"`

	// Permission is a '|' separated list of user, perdir, system, all.
	// Empty means all.
	Permission string `json:"permission,omitempty" yaml:"permission,omitempty" toml:"permission" hcl:"permission,optional" validate:"omitempty,ini_permission" jsonschema:"example=perdir|system"`
}

// ParsedPermission resolves the textual permission, defaulting to PermAll.
func (s EntrySpec) ParsedPermission() (Permission, error) {
	if s.Permission == "" {
		return PermAll, nil
	}
	return ParsePermission(s.Permission)
}
