// Package phc renders and parses Argon2 encoded hashes:
//
//	$argon2<d|i|id>$v=<version>$m=<memory>,t=<time>,p=<lanes>[,keyid=<b64>][,data=<b64>]$<b64 salt>$<b64 key>
//
// Base64 uses the standard alphabet without padding. The version segment is
// optional when decoding; a hash without it is a version 0x10 hash. Numbers
// are canonical unsigned decimals and every field is checked against the
// bounds in package limits, so a decoded Hash can be fed straight back into a
// derivation.
package phc
