// Package platform isolates the OS-specific calls used by the filesystem
// capability: no-follow opens, file identity, FIFOs and sockets.
package platform
