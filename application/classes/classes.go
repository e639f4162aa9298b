// Package classes resolves the engine's well-known class entries, such as the
// base exception classes and the built-in interfaces.
package classes

import (
	"context"
	"fmt"

	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/domain/ports"
)

// Name identifies a well-known class entry.
type Name string

// Well-known class entries.
const (
	StdClass            Name = "stdClass"
	Throwable           Name = "Throwable"
	Exception           Name = "Exception"
	ErrorException      Name = "ErrorException"
	CompileError        Name = "CompileError"
	ParseError          Name = "ParseError"
	TypeError           Name = "TypeError"
	ArgumentCountError  Name = "ArgumentCountError"
	ValueError          Name = "ValueError"
	ArithmeticError     Name = "ArithmeticError"
	DivisionByZeroError Name = "DivisionByZeroError"
	UnhandledMatchError Name = "UnhandledMatchError"
	Traversable         Name = "Traversable"
	IteratorAggregate   Name = "IteratorAggregate"
	Iterator            Name = "Iterator"
	ArrayAccess         Name = "ArrayAccess"
	Serializable        Name = "Serializable"
	Countable           Name = "Countable"
	Stringable          Name = "Stringable"
)

var symbols = map[Name]string{
	StdClass:            "zend_standard_class_def",
	Throwable:           "zend_ce_throwable",
	Exception:           "zend_ce_exception",
	ErrorException:      "zend_ce_error_exception",
	CompileError:        "zend_ce_compile_error",
	ParseError:          "zend_ce_parse_error",
	TypeError:           "zend_ce_type_error",
	ArgumentCountError:  "zend_ce_argument_count_error",
	ValueError:          "zend_ce_value_error",
	ArithmeticError:     "zend_ce_arithmetic_error",
	DivisionByZeroError: "zend_ce_division_by_zero_error",
	UnhandledMatchError: "zend_ce_unhandled_match_error",
	Traversable:         "zend_ce_traversable",
	IteratorAggregate:   "zend_ce_aggregate",
	Iterator:            "zend_ce_iterator",
	ArrayAccess:         "zend_ce_arrayaccess",
	Serializable:        "zend_ce_serializable",
	Countable:           "zend_ce_countable",
	Stringable:          "zend_ce_stringable",
}

// All lists every well-known class in a stable order.
func All() []Name {
	return []Name{
		StdClass, Throwable, Exception, ErrorException, CompileError, ParseError,
		TypeError, ArgumentCountError, ValueError, ArithmeticError, DivisionByZeroError,
		UnhandledMatchError, Traversable, IteratorAggregate, Iterator, ArrayAccess,
		Serializable, Countable, Stringable,
	}
}

// Symbol returns the engine data symbol backing the class.
func (n Name) Symbol() (string, bool) {
	s, ok := symbols[n]
	return s, ok
}

// Accessor looks up class entries in an engine.
type Accessor struct {
	table ports.ClassTable
}

// NewAccessor creates an accessor over table.
func NewAccessor(table ports.ClassTable) *Accessor {
	return &Accessor{table: table}
}

// Lookup returns the class entry for name, or a *errors.ClassNotFoundError
// when the engine does not provide it.
func (a *Accessor) Lookup(ctx context.Context, name Name) (entities.ClassEntryPtr, error) {
	symbol, ok := name.Symbol()
	if !ok {
		return 0, fmt.Errorf("unknown class %q", name)
	}

	ptr, ok, err := a.table.LookupClassEntry(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s: %w", symbol, err)
	}
	if !ok || ptr == 0 {
		return 0, &errors.ClassNotFoundError{Name: string(name), Symbol: symbol}
	}
	return entities.ClassEntryPtr(ptr), nil
}

// MustLookup is Lookup that panics when the class entry is missing.
func (a *Accessor) MustLookup(ctx context.Context, name Name) entities.ClassEntryPtr {
	ptr, err := a.Lookup(ctx, name)
	if err != nil {
		panic(err)
	}
	return ptr
}
