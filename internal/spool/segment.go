package spool

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tinygo.org/x/tinyfs/littlefs"

	"github.com/okuda/tinysense/internal/filesys"
)

var enc = binary.BigEndian

const lenWidth = 4

// segment buffers length-prefixed records in RAM and writes the appended
// region behind to its littlefs file on Sync/Close, the cheapest safe use of
// the flash-friendly filesystem.
type segment struct {
	fs          *littlefs.LFS
	path        string
	file        *littlefs.File
	data        []byte
	positions   []uint64
	initialSize uint64
	size        uint64
	syncedSize  uint64
	base        uint64
	maxBytes    uint64
	closed      bool
}

func newSegment(fs *littlefs.LFS, dir string, base uint64, maxBytes uint64) (*segment, error) {
	path := filepath.Join(dir, fmt.Sprintf("%d.spool", base))
	f, err := filesys.OpenFile(fs, path, os.O_RDWR|os.O_CREATE|os.O_APPEND)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	s := &segment{
		fs:          fs,
		path:        path,
		file:        f,
		data:        make([]byte, maxBytes),
		initialSize: uint64(fi.Size()),
		size:        uint64(fi.Size()),
		syncedSize:  uint64(fi.Size()),
		base:        base,
		maxBytes:    maxBytes,
	}
	if s.initialSize > 0 {
		if _, err := f.Read(s.data[:s.initialSize]); err != nil {
			f.Close()
			return nil, err
		}
		if err := s.scan(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

// scan rebuilds record positions from loaded data.
func (s *segment) scan() error {
	var pos uint64
	for pos < s.size {
		if pos+lenWidth > s.size {
			return io.ErrUnexpectedEOF
		}
		n := uint64(enc.Uint32(s.data[pos : pos+lenWidth]))
		if pos+lenWidth+n > s.size {
			return io.ErrUnexpectedEOF
		}
		s.positions = append(s.positions, pos)
		pos += lenWidth + n
	}
	return nil
}

func (s *segment) count() int { return len(s.positions) }

func (s *segment) fits(p []byte) bool {
	return s.size+lenWidth+uint64(len(p)) <= s.maxBytes
}

func (s *segment) append(p []byte) error {
	if !s.fits(p) {
		return fmt.Errorf("segment %d full", s.base)
	}
	head := s.size + lenWidth
	enc.PutUint32(s.data[s.size:head], uint32(len(p)))
	copy(s.data[head:head+uint64(len(p))], p)
	s.positions = append(s.positions, s.size)
	s.size = head + uint64(len(p))
	return nil
}

func (s *segment) read(i int) ([]byte, error) {
	if i < 0 || i >= len(s.positions) {
		return nil, fmt.Errorf("record %d out of range in segment %d", i, s.base)
	}
	pos := s.positions[i]
	n := uint64(enc.Uint32(s.data[pos : pos+lenWidth]))
	out := make([]byte, n)
	copy(out, s.data[pos+lenWidth:pos+lenWidth+n])
	return out, nil
}

func (s *segment) sync() error {
	if s.size > s.syncedSize {
		if _, err := s.file.Write(s.data[s.syncedSize:s.size]); err != nil {
			return err
		}
		s.syncedSize = s.size
	}
	return nil
}

func (s *segment) close() error {
	if s.closed {
		return fmt.Errorf("segment %d already closed", s.base)
	}
	if err := s.sync(); err != nil {
		return err
	}
	s.closed = true
	return s.file.Close()
}

func (s *segment) remove() error {
	if !s.closed {
		if err := s.close(); err != nil {
			return err
		}
	}
	return s.fs.Remove(s.path)
}
