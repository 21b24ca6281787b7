//go:build linux

package platform

import (
	"fmt"
	"os"
)

// bindAt binds base inside dir, addressing dir through its descriptor.
func bindAt(root *os.Root, dir, base string) error {
	d, err := root.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return bindUnixgram(fmt.Sprintf("/proc/self/fd/%d/%s", d.Fd(), base))
}
