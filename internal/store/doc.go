// Package store provides the shared SQLite store behind the learning queue
// and the export feed.
//
// Two tables are touched:
//   - words_to_learn: crowd-sourced corrections waiting for the offline
//     learner. UNIQUE(word, lang_code, ip) absorbs duplicate submissions.
//   - words_to_download: words the learner has published, read by the
//     export feed.
//
// Every operation borrows a dedicated connection from the pool and returns
// it on every path, including failures.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
