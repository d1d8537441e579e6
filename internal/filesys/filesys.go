package filesys

import (
	"fmt"
	"os"

	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/littlefs"
)

func OpenFile(fs *littlefs.LFS, path string, flags int) (*littlefs.File, error) {
	f, err := fs.OpenFile(path, flags)
	if err != nil {
		return nil, err
	}
	if f, ok := f.(*littlefs.File); ok {
		return f, nil
	}
	return nil, os.ErrInvalid
}

// NewFileSystem formats and mounts a littlefs instance on an in-memory block
// device. The spool only has to survive broker outages, not reboots, so RAM
// backing is enough on both host and device.
func NewFileSystem() (*littlefs.LFS, func(), error) {
	bd := tinyfs.NewMemoryDevice(64, 256, 2048)
	fs := littlefs.New(bd).Configure(&littlefs.Config{
		CacheSize:     128,
		LookaheadSize: 128,
		BlockCycles:   500,
	})
	if err := fs.Format(); err != nil {
		return nil, nil, err
	}
	if err := fs.Mount(); err != nil {
		return nil, nil, err
	}
	unmount := func() {
		if err := fs.Unmount(); err != nil {
			fmt.Println("Could not unmount", err)
		}
	}
	return fs, unmount, nil
}
