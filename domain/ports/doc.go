// Package ports defines interfaces for engine and infrastructure operations.
// These ports enable dependency inversion - the registrar depends on abstractions,
// and engine adapters (wazero, test fakes) implement these interfaces.
package ports
