// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Reads the text of a document file
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates for chat completion
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Text to vector. Without it, questions fail with ErrEmbeddingUnavailable.
//   - QAModel: Extractive answers. Without it, only pattern answers are available.
//   - LLMService: Free-form document queries. Without it, queries fail with ErrLLMUnavailable.
//   - TokenCounter: Prompt budgeting. Without it, only the character cap applies.
//   - ExtractionCache, VectorCache: Memoisation of extraction and embedding results.
//   - Library, Watcher: Document hierarchy, folder distances and cache invalidation.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
