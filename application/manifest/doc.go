// Package manifest loads declarative ini manifests and turns them into entry
// definitions.
//
// Manifests may be written in YAML, TOML or HCL:
//
//	# opcache.yaml
//	module: opcache
//	module_number: 7
//	entries:
//	  - name: log_level
//	    default: "1"
//	    permission: perdir
//	  - name: cache_size
//	    default: "256"
//	    permission: system
//
//	# opcache.toml
//	module = "opcache"
//	module_number = 7
//	[[entry]]
//	name = "log_level"
//	default = "1"
//	permission = "perdir"
//
//	# opcache.hcl
//	module = "opcache"
//	module_number = 7
//	entry "log_level" {
//	  default    = "1"
//	  permission = "perdir"
//	}
package manifest
