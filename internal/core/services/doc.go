// Package services implements the application core: corpus indexing,
// intent classification and the retrieval orchestrator that answers
// questions. Services hold the process-wide shared state (vector store
// and caches) behind injected ports; all mutation is serialised inside
// the adapters.
package services
