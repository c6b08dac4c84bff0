// Package codegen holds the code-shape policies the compiler threads
// through configuration: entry-point start code and 32-bit integer
// arithmetic encoding for a double-precision target runtime.
//
// Everything here is a total, pure function over immutable data. No
// function performs I/O, blocks, or returns an error; malformed inputs
// degrade to documented verbatim behavior instead. The code generator
// calls the arithmetic policies once per relevant primitive, the linker
// renders the start policy exactly once per executable target.
package codegen
