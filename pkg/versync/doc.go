// Package versync provides a high-level library API for versync.
//
// This package is the primary integration point for external consumers
// such as release bots and CI pipelines. It wraps internal packages
// into a clean, stable public API.
//
// # Concurrency Safety
//
// Versync operations are filesystem-based and follow these rules:
//
//   - Read operations (ResolveAndPreview, ResolveBatch, Scan) are safe
//     to call concurrently.
//
//   - Mutating operations (Apply, Bump) take the repository sync lock;
//     a second mutating call from any process fails while one is in
//     flight rather than interleaving writes.
//
//   - Multiple Client instances for DIFFERENT repositories are fully
//     independent and safe to use concurrently.
//
// # Recommended Usage Pattern (CI release step)
//
//	client, err := versync.Open(repoPath)
//	preview, err := client.ResolveAndPreview(ctx, commitMessage)
//	if preview.Bump != model.BumpNone {
//	    _, err = client.Apply(ctx, preview.Next)
//	}
package versync
