// Package chunkdex embeds the chunkdex retrieval engine in a Go program.
//
// A Client segments a markdown textbook into hierarchical chunks, vectorizes
// them with feature hashing, persists snapshots to a directory or to Redis and
// answers top-K cosine similarity queries from memory.
//
//	client, _ := chunkdex.New(ctx, chunkdex.WithDir("data"))
//	defer client.Close()
//
//	summary, _ := client.Build(ctx, markdown)
//	hits, _ := client.Search("linkage and crossing over").
//	    TopK(3).
//	    Threshold(0.2).
//	    Chapter("Heredity").
//	    Do(ctx)
//
// A Client built over existing snapshots calls Load before searching.
package chunkdex
