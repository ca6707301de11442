// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The question pipeline is built from four parts, leaves first:
//
//   - chunker.Processor splits document text (internal/postprocessors/chunker)
//   - Gateway embeds chunks and questions
//   - Ranker selects the top-k chunks for a question
//   - Synthesizer answers from the ranked chunks
//
// QuestionService composes them.
package services
