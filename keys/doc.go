// Package keys holds the ed25519 helpers used by the benchmark.
//
// VerifyStrict is the verification rule the guest applies to every
// signature. Signer, SeedChain and MessageDigest exist to build synthetic
// inputs for the driver and for tests; they are deterministic so that the
// same plan always produces the same input buffers.
package keys
