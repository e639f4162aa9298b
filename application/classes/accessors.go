package classes

import (
	"context"

	"github.com/zendwasm/zendini/domain/entities"
)

// StdClass returns the StdClass class entry. It panics if the engine lacks it.
func (a *Accessor) StdClass(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, StdClass)
}

// Throwable returns the Throwable class entry. It panics if the engine lacks it.
func (a *Accessor) Throwable(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, Throwable)
}

// Exception returns the Exception class entry. It panics if the engine lacks it.
func (a *Accessor) Exception(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, Exception)
}

// ErrorException returns the ErrorException class entry. It panics if the engine lacks it.
func (a *Accessor) ErrorException(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, ErrorException)
}

// CompileError returns the CompileError class entry. It panics if the engine lacks it.
func (a *Accessor) CompileError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, CompileError)
}

// ParseError returns the ParseError class entry. It panics if the engine lacks it.
func (a *Accessor) ParseError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, ParseError)
}

// TypeError returns the TypeError class entry. It panics if the engine lacks it.
func (a *Accessor) TypeError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, TypeError)
}

// ArgumentCountError returns the ArgumentCountError class entry. It panics if the engine lacks it.
func (a *Accessor) ArgumentCountError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, ArgumentCountError)
}

// ValueError returns the ValueError class entry. It panics if the engine lacks it.
func (a *Accessor) ValueError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, ValueError)
}

// ArithmeticError returns the ArithmeticError class entry. It panics if the engine lacks it.
func (a *Accessor) ArithmeticError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, ArithmeticError)
}

// DivisionByZeroError returns the DivisionByZeroError class entry. It panics if the engine lacks it.
func (a *Accessor) DivisionByZeroError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, DivisionByZeroError)
}

// UnhandledMatchError returns the UnhandledMatchError class entry. It panics if the engine lacks it.
func (a *Accessor) UnhandledMatchError(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, UnhandledMatchError)
}

// Traversable returns the Traversable class entry. It panics if the engine lacks it.
func (a *Accessor) Traversable(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, Traversable)
}

// IteratorAggregate returns the IteratorAggregate class entry. It panics if the engine lacks it.
func (a *Accessor) IteratorAggregate(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, IteratorAggregate)
}

// Iterator returns the Iterator class entry. It panics if the engine lacks it.
func (a *Accessor) Iterator(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, Iterator)
}

// ArrayAccess returns the ArrayAccess class entry. It panics if the engine lacks it.
func (a *Accessor) ArrayAccess(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, ArrayAccess)
}

// Serializable returns the Serializable class entry. It panics if the engine lacks it.
func (a *Accessor) Serializable(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, Serializable)
}

// Countable returns the Countable class entry. It panics if the engine lacks it.
func (a *Accessor) Countable(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, Countable)
}

// Stringable returns the Stringable class entry. It panics if the engine lacks it.
func (a *Accessor) Stringable(ctx context.Context) entities.ClassEntryPtr {
	return a.MustLookup(ctx, Stringable)
}
