package fileutil

import "os"

// Seen records files by identity, so a file reached through a relative path, an absolute path,
// a symlink or a hard link is counted once.
type Seen struct {
	// bySize buckets records so os.SameFile only runs against files of equal size
	bySize map[int64][]record
	count  int
}

type record struct {
	info  os.FileInfo
	index int
}

// NewSeen returns an empty set.
func NewSeen() *Seen {
	return &Seen{bySize: make(map[int64][]record)}
}

// Add records info and reports whether its file is new. The returned index counts new files
// in the order they were added; for a repeat it is the index of the first record.
// info must describe the file itself, not a symlink to it.
func (s *Seen) Add(info os.FileInfo) (int, bool) {
	for _, other := range s.bySize[info.Size()] {
		if os.SameFile(info, other.info) {
			return other.index, false
		}
	}

	index := s.count
	s.count++

	s.bySize[info.Size()] = append(s.bySize[info.Size()], record{info: info, index: index})

	return index, true
}
