//go:build !linux

package resolve

func birthTime(string) (int64, bool) {
	return 0, false
}
