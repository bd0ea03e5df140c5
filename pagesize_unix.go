//go:build linux || darwin

package ringalloc

import "golang.org/x/sys/unix"

// pageSize reports the OS page size, used as New's default alignment when
// the caller does not supply one via WithDefaultAlignment. It follows the
// teacher event loop package's own build-tag split for platform-specific
// primitives (poller_linux.go / poller_darwin.go / poller_windows.go).
func pageSize() uint32 {
	return uint32(unix.Getpagesize())
}
