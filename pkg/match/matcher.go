// Package match pairs the entries of two snapshots so the planner can
// derive a reconciliation plan.
package match

import (
	"sort"

	"github.com/rajivm1991/DroidDock/pkg/models"
)

// Pair is an entry present in both snapshots under the same relative path
type Pair struct {
	Path   string
	Local  models.FileRecord
	Remote models.FileRecord
}

// Rename is a pending rename candidate: the same content digest found
// under different paths on the two sides
type Rename struct {
	LocalPath  string
	RemotePath string
	Local      models.FileRecord
	Remote     models.FileRecord
}

// MatchSet partitions the entries of two snapshots
type MatchSet struct {
	// Paired entries exist on both sides under the same path
	Paired []Pair

	// LocalOnly and RemoteOnly exist on one side only and are not part
	// of any rename candidate
	LocalOnly  []models.FileRecord
	RemoteOnly []models.FileRecord

	// Renames are cross-side content matches found in ByContent mode
	Renames []Rename
}

// Match partitions local and remote snapshot entries. In ByContent mode
// the unpaired sets are additionally scanned for equal content digests;
// such a cross match is the same file under a different name and becomes
// a rename candidate instead of an independent add/delete pair.
func Match(local, remote *models.Snapshot, mode models.MatchMode) *MatchSet {
	ms := &MatchSet{}

	for path, localRec := range local.Entries {
		if remoteRec, ok := remote.Get(path); ok {
			ms.Paired = append(ms.Paired, Pair{Path: path, Local: localRec, Remote: remoteRec})
		} else {
			ms.LocalOnly = append(ms.LocalOnly, localRec)
		}
	}
	for path, remoteRec := range remote.Entries {
		if _, ok := local.Get(path); !ok {
			ms.RemoteOnly = append(ms.RemoteOnly, remoteRec)
		}
	}

	if mode == models.MatchByContent {
		ms.detectRenames()
	}

	ms.sort()
	return ms
}

// detectRenames cross-matches the unpaired sets by content digest.
// When several entries on either side share a digest, pairing is
// first-unmatched-to-first-unmatched in ascending path order, which
// keeps the result deterministic.
func (ms *MatchSet) detectRenames() {
	localByHash := groupByHash(ms.LocalOnly)
	remoteByHash := groupByHash(ms.RemoteOnly)

	renamed := make(map[string]bool)

	hashes := make([]string, 0, len(localByHash))
	for hash := range localByHash {
		if _, ok := remoteByHash[hash]; ok {
			hashes = append(hashes, hash)
		}
	}
	sort.Strings(hashes)

	for _, hash := range hashes {
		locals := localByHash[hash]
		remotes := remoteByHash[hash]
		sortRecords(locals)
		sortRecords(remotes)

		n := len(locals)
		if len(remotes) < n {
			n = len(remotes)
		}
		for i := 0; i < n; i++ {
			ms.Renames = append(ms.Renames, Rename{
				LocalPath:  locals[i].RelativePath,
				RemotePath: remotes[i].RelativePath,
				Local:      locals[i],
				Remote:     remotes[i],
			})
			renamed["local:"+locals[i].RelativePath] = true
			renamed["remote:"+remotes[i].RelativePath] = true
		}
	}

	if len(renamed) == 0 {
		return
	}

	ms.LocalOnly = dropRenamed(ms.LocalOnly, renamed, "local:")
	ms.RemoteOnly = dropRenamed(ms.RemoteOnly, renamed, "remote:")
}

// groupByHash buckets records by content digest; directories and entries
// without a digest never participate in rename detection
func groupByHash(records []models.FileRecord) map[string][]models.FileRecord {
	groups := make(map[string][]models.FileRecord)
	for _, rec := range records {
		if rec.IsDir || rec.Hash == "" {
			continue
		}
		groups[rec.Hash] = append(groups[rec.Hash], rec)
	}
	return groups
}

func dropRenamed(records []models.FileRecord, renamed map[string]bool, prefix string) []models.FileRecord {
	kept := records[:0]
	for _, rec := range records {
		if !renamed[prefix+rec.RelativePath] {
			kept = append(kept, rec)
		}
	}
	return kept
}

func sortRecords(records []models.FileRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].RelativePath < records[j].RelativePath
	})
}

// sort orders every partition by ascending path so downstream planning
// is stable regardless of map iteration order
func (ms *MatchSet) sort() {
	sort.Slice(ms.Paired, func(i, j int) bool {
		return ms.Paired[i].Path < ms.Paired[j].Path
	})
	sortRecords(ms.LocalOnly)
	sortRecords(ms.RemoteOnly)
	sort.Slice(ms.Renames, func(i, j int) bool {
		return ms.Renames[i].LocalPath < ms.Renames[j].LocalPath
	})
}
