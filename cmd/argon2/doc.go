// Command argon2 hashes and verifies passwords with Argon2, benchmarks the
// engine and prints known-answer logs.
//
// Usage:
//
//	echo -n password | argon2 hash somesalt -t 2 -m 16 -p 4
//	echo -n password | argon2 hash somesalt --type id -e
//	echo -n password | argon2 verify '$argon2id$v=19$m=65536,t=2,p=4$...'
//	argon2 bench --min-log 10 --max-log 14
//	argon2 kat --type d
//
// The password is read from standard input. When standard input is a
// terminal it is prompted for without echo. A single trailing newline is
// removed.
package main
