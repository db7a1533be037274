package resolve

import "golang.org/x/sys/unix"

// birthTime reads the file creation time via statx. Filesystems that do
// not record it report ok=false.
func birthTime(path string) (int64, bool) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return 0, false
	}
	return stx.Btime.Sec, true
}
