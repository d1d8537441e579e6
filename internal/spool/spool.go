// Package spool is a bounded append log of encoded telemetry frames on
// littlefs. The control loop appends, the publisher drains; when the broker
// stays unreachable long enough to fill every segment, the oldest segment is
// dropped whole.
package spool

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"tinygo.org/x/tinyfs/littlefs"

	"github.com/okuda/tinysense/internal/filesys"
)

type Config struct {
	Segment struct {
		MaxStoreBytes uint64
	}
	// MaxSegments caps total retention; at least 2 so rotation always has
	// room for the active segment.
	MaxSegments int
}

type Spool struct {
	mu sync.Mutex

	fs     *littlefs.LFS
	dir    string
	config Config

	segments []*segment
	active   *segment

	readSeg int // index into segments
	readRec int // record index within segments[readSeg]
}

func New(fs *littlefs.LFS, dirStr string, c Config) (*Spool, error) {
	if c.Segment.MaxStoreBytes == 0 {
		c.Segment.MaxStoreBytes = 1024
	}
	if c.MaxSegments < 2 {
		c.MaxSegments = 2
	}
	fs.Mkdir(dirStr, 0000)
	s := &Spool{
		fs:     fs,
		dir:    dirStr,
		config: c,
	}
	return s, s.setup()
}

func (s *Spool) setup() error {
	dir, err := filesys.OpenFile(s.fs, s.dir, os.O_RDWR|os.O_CREATE)
	if err != nil {
		return err
	}
	defer dir.Close()

	files, err := dir.Readdir(0)
	if err != nil {
		return err
	}
	var bases []uint64
	for _, file := range files {
		baseStr := strings.TrimSuffix(file.Name(), path.Ext(file.Name()))
		base, err := strconv.ParseUint(baseStr, 10, 0)
		if err != nil {
			continue
		}
		bases = append(bases, base)
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i] < bases[j] })
	for _, base := range bases {
		if err := s.openSegment(base); err != nil {
			return err
		}
	}
	if s.segments == nil {
		if err := s.openSegment(0); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spool) openSegment(base uint64) error {
	seg, err := newSegment(s.fs, s.dir, base, s.config.Segment.MaxStoreBytes)
	if err != nil {
		return err
	}
	s.segments = append(s.segments, seg)
	s.active = seg
	return nil
}

// Append queues one encoded frame.
func (s *Spool) Append(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uint64(len(p))+lenWidth > s.config.Segment.MaxStoreBytes {
		return fmt.Errorf("record of %d bytes exceeds segment capacity", len(p))
	}
	if !s.active.fits(p) {
		if err := s.rotate(); err != nil {
			return err
		}
	}
	return s.active.append(p)
}

func (s *Spool) rotate() error {
	if err := s.active.sync(); err != nil {
		return err
	}
	if err := s.openSegment(s.active.base + 1); err != nil {
		return err
	}
	for len(s.segments) > s.config.MaxSegments {
		dropped := s.segments[0]
		if err := dropped.remove(); err != nil {
			return err
		}
		s.segments = s.segments[1:]
		// Unread records in the dropped segment are gone; move the cursor
		// to the new oldest segment.
		if s.readSeg > 0 {
			s.readSeg--
		} else {
			s.readRec = 0
		}
	}
	return nil
}

// Peek returns the next undrained record without consuming it.
func (s *Spool) Peek() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.readSeg < len(s.segments) {
		seg := s.segments[s.readSeg]
		if s.readRec < seg.count() {
			p, err := seg.read(s.readRec)
			if err != nil {
				return nil, false
			}
			return p, true
		}
		if seg == s.active {
			return nil, false
		}
		s.readSeg++
		s.readRec = 0
	}
	return nil, false
}

// Advance consumes the record last returned by Peek.
func (s *Spool) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readSeg < len(s.segments) && s.readRec < s.segments[s.readSeg].count() {
		s.readRec++
	}
}

// Pending reports how many records are queued but not yet drained.
func (s *Spool) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i := s.readSeg; i < len(s.segments); i++ {
		c := s.segments[i].count()
		if i == s.readSeg {
			c -= s.readRec
		}
		n += c
	}
	return n
}

// Sync flushes the active segment's RAM buffer to littlefs.
func (s *Spool) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.sync()
}

func (s *Spool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seg := range s.segments {
		if err := seg.close(); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes all segment files, for tests.
func (s *Spool) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seg := range s.segments {
		if err := seg.remove(); err != nil {
			return err
		}
	}
	s.segments = nil
	s.active = nil
	s.readSeg, s.readRec = 0, 0
	return nil
}
