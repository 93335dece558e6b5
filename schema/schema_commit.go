package schema

// CommitRef identifies one commit of a linear walk.
type CommitRef struct {
	Hash string
	Time int64 // Committer time in Unix seconds
}

// DiffStat holds line insertions and deletions between two snapshots.
type DiffStat struct {
	Insertions uint64 `json:"insertions"`
	Deletions  uint64 `json:"deletions"`
}

// CommitRecord is a commit paired with the diff against the previous commit of the walk.
type CommitRecord struct {
	Hash       string
	Time       int64
	Insertions uint64
	Deletions  uint64
}

// NewCommitRecord combines a commit reference with its diff stat.
func NewCommitRecord(ref CommitRef, stat DiffStat) CommitRecord {
	return CommitRecord{
		Hash:       ref.Hash,
		Time:       ref.Time,
		Insertions: stat.Insertions,
		Deletions:  stat.Deletions,
	}
}
