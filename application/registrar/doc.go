// Package registrar turns ini entry definitions into a terminated
// zend_ini_entry_def array inside engine memory and hands it to the engine's
// registration call.
//
// Ownership moves in one direction only. An EntryList owns its entries until
// Materialize consumes it; the resulting Handoff carries nothing but the
// engine address of the array and has no way to release it. Once Register
// has passed that address to the engine, the engine owns the array for the
// rest of its lifetime, including when it reports a failure.
//
// # Basic Usage
//
//	logLevel, err := entities.NewIniEntryDefString("log_level", "1", entities.PermPerDir)
//	if err != nil {
//	    return err
//	}
//	cacheSize, err := entities.NewIniEntryDefString("cache_size", "256", entities.PermSystem)
//	if err != nil {
//	    return err
//	}
//
//	r := registrar.New(runtime)
//	handoff, err := r.Register(ctx, moduleNumber, logLevel, cacheSize)
package registrar
