// Package cache keeps synthesized speech in memory for the lifetime of the
// process so replaying a prayer does not hit the speech service again.
// Nothing is written to disk.
package cache
