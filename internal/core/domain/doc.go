// Package domain contains the core business types for the Complia
// retrieval pipeline: documents, chunks, index entries, intents and the
// error taxonomy shared by all adapters and services.
package domain
