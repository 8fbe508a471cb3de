// Package vocab holds the shared value types of the service: language codes,
// learning submissions and export rows.
//
// This package contains type definitions and text normalisation only. Every
// other internal package may import vocab; vocab imports nothing internal.
//
// Key constraints:
//   - Words are compared after trimming and NFC normalisation
//   - Confidence is an opaque comparable score; no bound is enforced here
//   - Export dates are calendar days in YYYY-MM-DD form
package vocab
