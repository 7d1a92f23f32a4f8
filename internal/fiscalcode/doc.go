// Package fiscalcode computes the Italian personal tax identifier
// ("codice fiscale") from already-validated personal data.
//
// The package is pure: no I/O, no context.Context, no clock. The encoding
// pipeline is
//
//	surname(3) ++ name(3) ++ birth(5) ++ cadastral(4) ++ check(1)
//
// where each fragment is produced by an independent encoder and the check
// character is derived from the 15-character body. Resolving a municipality
// name to its cadastral code is the caller's job (see internal/municipality).
package fiscalcode
