// Package encryption transforms files in place under a password-derived CTR keystream.
//
// Each file is read whole, XORed with the keystream starting at block 0, and written back to
// the same path. No header or tag is added, so output and input have the same length. A file
// processed twice with the same password is restored. Several files may be processed in parallel;
// each file is handled by exactly one worker.
package encryption
