// Package pathutil provides helpers for slash-separated, root-relative fixture paths.
package pathutil

import (
	"runtime"
	"strings"
)

// MaxNameLen is the longest path segment most filesystems accept (NAME_MAX).
const MaxNameLen = 255

// Base returns the last element of a slash-separated path.
// If path is empty or ".", it returns ".".
func Base(path string) string {
	if path == "" || path == "." {
		return "."
	}
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Dir returns everything but the last element of a slash-separated path.
// Top-level names return ".".
func Dir(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return "."
}

// Join appends name to the relative directory dir.
// The root is spelled "." and is elided.
func Join(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

// Compare orders two relative paths component by component, so that a
// directory always sorts directly before its descendants ("a" < "a/b" < "a.txt").
func Compare(a, b string) int {
	for {
		if a == b {
			return 0
		}
		ha, ra, moreA := strings.Cut(a, "/")
		hb, rb, moreB := strings.Cut(b, "/")
		if c := strings.Compare(ha, hb); c != 0 {
			return c
		}
		switch {
		case !moreA:
			return -1
		case !moreB:
			return 1
		}
		a, b = ra, rb
	}
}

// Rel returns a relative path that reaches target from the directory dir.
// Both arguments are root-relative slash paths without "." or ".." elements.
func Rel(dir, target string) string {
	var from, to []string
	if dir != "." && dir != "" {
		from = strings.Split(dir, "/")
	}
	if target != "." && target != "" {
		to = strings.Split(target, "/")
	}
	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}
	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

// ValidName reports whether name can be used as a single path segment on
// the current platform.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." || len(name) > MaxNameLen {
		return false
	}
	for i := 0; i < len(name); i++ {
		if reservedByte(name[i]) {
			return false
		}
	}
	return true
}

// SanitizeNameByte maps b onto a byte that is legal inside a path segment.
func SanitizeNameByte(b byte) byte {
	if reservedByte(b) {
		return '_'
	}
	return b
}

// ValidTarget reports whether target can be stored as a symlink target.
func ValidTarget(target string) bool {
	return target != "" && strings.IndexByte(target, 0) < 0
}

func reservedByte(b byte) bool {
	if b == 0 || b == '/' {
		return true
	}
	if runtime.GOOS != "windows" {
		return false
	}
	if b < 0x20 {
		return true
	}
	return strings.IndexByte(`<>:"\|?*`, b) >= 0
}
