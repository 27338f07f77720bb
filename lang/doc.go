// Package lang implements the expression language of platelet templates:
// the dynamic [Value] type, the expression parser and evaluator, and the
// pl-for loop parser and runner.
//
// # Values
//
// A [Value] is JSON-shaped: null, bool, number, string, array or object.
// Numbers keep their integer or float representation, and objects keep
// their key order. [DecodeJSON] and [DecodeYAML] build values from
// documents; [FromAny] converts native Go values.
//
// # Expressions
//
// Expressions are written inside directive attributes and {{ }} text
// interpolations:
//
//	user.name
//	items[0].price * 2
//	len(items) > 0 && !hidden
//	"id-" + id
//	featured ? "star" : null
//	{"active": selected == id, "disabled": locked}
//
// Operators, lowest precedence first: ?: (right associative), ||, &&,
// == != > >= < <=, %, + -, * /, unary !, indexing with [] and ".".
//
// Typing is weak where it helps markup: + joins strings with numbers,
// concatenates arrays and merges objects; || yields its first truthy
// operand; && yields its right operand or false. Two integers divide to a
// truncated integer, while a float operand gives float division. Looking
// up a missing identifier yields null, but indexing a missing property of
// an object is an [EvalError].
//
// # Loops
//
// [ParseForLoop] accepts the three pl-for forms:
//
//	item in items
//	(item, index) in items
//	(value, key) in object
//	(key, value, index) in object
//
// and [ForLoop.Run] expands a scope into one scope per iteration.
//
// # Caching
//
// [Compile] and [CompileForLoop] memoize parse results keyed by the xxh3
// hash of the source text. Parsed trees are immutable and safe to share.
package lang
