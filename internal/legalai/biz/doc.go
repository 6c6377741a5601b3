// Package biz contains the business logic of the legal assistant.
//
// The pipeline is split into components:
//   - Indexer: document ingestion (chunking, embedding, batch upserts)
//   - Retriever: similarity search over the vector store
//   - Generator: answer generation from retrieved fragments
//   - Orchestrator: composes the above into the streamed answer protocol
package biz
