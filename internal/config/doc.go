// Package config defines the per-run option record for the compiler.
//
// A Config is built once per invocation - Default, then optionally
// LoadFile for a CUE settings file, then caller overrides on a copy -
// and is read-only from then on. Downstream phases (code generator,
// linker, file writer) consume its fields; independent compilations may
// share one record without synchronization because nothing mutates it.
//
// No field-interdependency validation happens here: combinations that
// make no sense (a library bundle with a start policy, say) are passed
// through and downstream phases ignore what they cannot use.
package config
