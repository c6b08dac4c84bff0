package codegen

// Integer arithmetic encoding for a runtime whose only numeric type is an
// IEEE 754 double. Doubles represent integers exactly up to 2^53 and have
// no native 32-bit overflow, so 32-bit wrap-around semantics have to be
// reintroduced syntactically.
//
// All functions here are pure rewrites over expression text. They never
// fail: the only risk is the documented precision loss of FastMultiply.

// TruncateInt wraps expr so its result is truncated to signed 32 bits.
// Bitwise OR with zero takes the runtime's bitwise-coercion path, which
// truncates to 32-bit two's complement and reinterprets the sign bit.
// Always correctness-preserving; the default result policy for the
// addition/subtraction/shift class of primitives.
func TruncateInt(expr string) string {
	return "(" + expr + " | 0)"
}

// PassthroughInt leaves expr unchanged. Selected only by the unsafe-ints
// escape hatch; results may exceed 32-bit range silently.
func PassthroughInt(expr string) string {
	return expr
}

// SafeMultiply encodes a 32-bit integer multiplication as a call to the
// runtime's imul intrinsic. Native double multiplication loses low bits
// once the product exceeds 2^53 even when both operands fit in 32 bits,
// so the intrinsic is the default.
func SafeMultiply(a, b string) string {
	return "imul(" + a + ", " + b + ")"
}

// FastMultiply encodes multiplication with the native operator. Faster
// than SafeMultiply but silently imprecise past 2^53 products; opt-in
// only, never the default.
func FastMultiply(a, b string) string {
	return "(" + a + " * " + b + ")"
}
