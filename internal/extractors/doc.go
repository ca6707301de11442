// Package extractors provides implementations of the TextExtractor port
// for document formats. Each extractor handles a set of file extensions
// and is registered with a Registry at startup.
package extractors
