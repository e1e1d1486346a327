// Package envfile reads and rewrites line-oriented .env files.
//
// Each non-comment, non-blank line is KEY=VALUE, split on the first '='.
// Comments begin with '#' or ';' at line start. A key may be written with a
// ';' prefix to mark the entry disabled; disabled entries are skipped on
// parse but recognized by Rewrite so re-enabling a key reuses its line.
//
// Rewrite and Disable hold an advisory file lock for the whole
// read-modify-write cycle and replace the file atomically.
package envfile
