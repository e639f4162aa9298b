// Package host runs a Zend engine compiled to WebAssembly and registers ini
// entries with it.
//
// It owns the wazero runtime, instantiates the engine binary, and wires the
// wazero adapter to the registrar and the class accessor. Registration is a
// startup step: load the engine, register every module's entries once, then
// hand the instance to whatever dispatches requests.
package host
