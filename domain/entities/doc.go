// Package entities provides core domain entities for INI registration.
// These are general-purpose types used across the registrar, the manifest
// loader and the engine adapters.
package entities
