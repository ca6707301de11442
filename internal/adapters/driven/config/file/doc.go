// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: Editable prompt templates with embedded defaults
//   - RuleStore: TOML overrides for the fallback matcher rules
package file
