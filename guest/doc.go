// Package guest is the program that runs inside the zkVM.
//
// An input buffer starts with an opcode byte followed by one job:
//
//	0  hash chain       repeat u32 | chunk_size u32 | repeat × chunk_size bytes
//	1  signature batch  repeat u32 | digest[32] | repeat × (pubkey[32] | sig[64])
//	2  merkle proofs    repeat u32 | root[32] | repeat × (index[32] | leaf[32] | 255 × sibling[32])
//
// All integers are little-endian. Run decodes the buffer, executes the job
// and commits a 36-byte record (digest[32] | iterations u32) as the public
// output. Any failure aborts the invocation with a *Error and commits
// nothing; the caller decides whether that is fatal.
package guest
