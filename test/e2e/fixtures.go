// Package e2e exercises the HTTP API end to end: ingest, search, catalog,
// removal, and status over a real router and SQLite store.
package e2e

// Document is one corpus entry ingested during an end-to-end run.
type Document struct {
	Source  string
	Title   string
	Author  string
	Content string
}

// QueryCase pairs a query with the source expected to rank first. Queries
// repeat a document's text verbatim, which the deterministic test embedder
// maps to the identical vector, so the expectation holds regardless of model.
type QueryCase struct {
	Description    string
	Query          string
	ExpectedSource string
}

// Corpus is the fixture set for end-to-end runs.
type Corpus struct {
	Documents []Document
	TestCases []QueryCase
}

// BuildCorpus returns a small fixed library spanning several authors and
// topics, with query cases targeting three of the documents.
func BuildCorpus() *Corpus {
	docs := []Document{
		{
			Source:  "/library/papers/qec.pdf",
			Title:   "Quantum Error Correction",
			Author:  "Shor",
			Content: "Quantum error correction protects qubits from decoherence by encoding logical qubits across many physical qubits.",
		},
		{
			Source:  "/library/papers/raft.pdf",
			Title:   "In Search of an Understandable Consensus Algorithm",
			Author:  "Ongaro",
			Content: "Raft is a consensus algorithm for managing a replicated log, designed to be easier to understand than Paxos.",
		},
		{
			Source:  "/library/notes/sourdough.md",
			Title:   "Sourdough Starter Log",
			Author:  "",
			Content: "Fed the starter at a one to five ratio; it doubled in four hours at room temperature.",
		},
		{
			Source:  "/library/books/moby-dick.txt",
			Title:   "Moby-Dick",
			Author:  "Melville",
			Content: "Call me Ishmael. Some years ago, never mind how long precisely, having little or no money in my purse.",
		},
		{
			Source:  "/library/papers/attention.pdf",
			Title:   "Attention Is All You Need",
			Author:  "Vaswani",
			Content: "The Transformer relies entirely on attention mechanisms, dispensing with recurrence and convolutions.",
		},
	}

	cases := []QueryCase{
		{
			Description:    "quantum paper by exact passage",
			Query:          docs[0].Content,
			ExpectedSource: docs[0].Source,
		},
		{
			Description:    "consensus paper by exact passage",
			Query:          docs[1].Content,
			ExpectedSource: docs[1].Source,
		},
		{
			Description:    "novel by exact passage",
			Query:          docs[3].Content,
			ExpectedSource: docs[3].Source,
		},
	}

	return &Corpus{Documents: docs, TestCases: cases}
}
