// Package wazero adapts a Zend engine instantiated in wazero to the registrar ports.
//
// The engine module must export its linear memory, an allocator (default
// "malloc") and the ini registration primitive (default
// "zend_register_ini_entries"). Class entry symbols are resolved through
// exported i32 globals holding the address of the C global.
//
// # Basic Usage
//
//	mod, err := runtime.Instantiate(ctx, engineWasm)
//	if err != nil {
//	    return err
//	}
//	rt, err := wazero.NewRuntime(mod)
//	if err != nil {
//	    return err
//	}
//	_, err = registrar.New(rt).Register(ctx, moduleNumber, entries...)
package wazero
