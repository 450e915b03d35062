package models

import (
	"time"
)

// Origin identifies which side of a sync session a snapshot was taken from
type Origin string

const (
	// OriginLocal is the local directory side
	OriginLocal Origin = "local"
	// OriginRemote is the device-resident directory side
	OriginRemote Origin = "remote"
)

// FileRecord represents one entry of a directory tree at snapshot time
type FileRecord struct {
	// RelativePath is the POSIX-style path relative to the sync root
	RelativePath string

	// Size in bytes
	Size int64

	// ModTime is the last modification time (source-local clock)
	ModTime time.Time

	// IsDir indicates if this is a directory
	IsDir bool

	// Hash is the content digest, computed only in ByContent match mode.
	// Directories and symlinks carry no digest.
	Hash string
}

// Snapshot is a flat, point-in-time record of one directory tree.
// RelativePath is unique within a snapshot; a snapshot is owned by the
// sync session that built it and discarded afterwards.
type Snapshot struct {
	Root    Origin
	Entries map[string]FileRecord
}

// NewSnapshot creates an empty snapshot for the given origin
func NewSnapshot(root Origin) *Snapshot {
	return &Snapshot{
		Root:    root,
		Entries: make(map[string]FileRecord),
	}
}

// Add records an entry, replacing any previous record at the same path
func (s *Snapshot) Add(rec FileRecord) {
	s.Entries[rec.RelativePath] = rec
}

// Get returns the record at the given path, or false if it is not present
func (s *Snapshot) Get(relativePath string) (FileRecord, bool) {
	rec, ok := s.Entries[relativePath]
	return rec, ok
}

// Len returns the number of entries in the snapshot
func (s *Snapshot) Len() int {
	return len(s.Entries)
}
