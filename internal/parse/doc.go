// Package parse turns raw YAML records into typed documents.
//
// The parser consumes one record at a time: a kind tag, the record's YAML
// mapping node, and the origin it was read from. It produces a
// document.Document plus any number of structural errors. Parsing is pure:
// it touches neither the key index nor the store, and records parse
// independently of each other, so the load phase can fan them out to a
// worker pool.
//
// Error reporting is deliberately strict for a data-quality tool: unknown
// fields are errors, not noise, and every error names the field path, the
// expected shape, and the position in the input. All text is normalized to
// Unicode NFC before it is stored, so later key comparison and equality
// checks do not depend on how the source file happened to encode a string.
package parse
