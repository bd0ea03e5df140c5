//go:build windows

package ringalloc

// pageSize reports the conventional Windows page size. Querying
// GetSystemInfo for this would need further syscall plumbing this module has
// no other use for; 4096 is correct for every Windows architecture Go
// targets today.
func pageSize() uint32 {
	return 4096
}
