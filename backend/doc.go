// Package backend defines the generation capability IntelliKit delegates
// to: establishing conversational handles (optionally seeded with system
// instructions) and executing shape-constrained generation requests
// against them. Concrete providers live in sub-packages (anthropic,
// openai); the MockBackend in this package keeps the protocol and
// session engine testable without any real generation dependency.
package backend
