package repograde

// AcquisitionSource records which strategy produced a snapshot. It is kept
// for diagnostics only; nothing branches on it after acquisition.
type AcquisitionSource string

const (
	SourceAPI   AcquisitionSource = "api"
	SourceClone AcquisitionSource = "clone"
)

// RepoRef is the owner/repo pair resolved from a user-supplied URL.
type RepoRef struct {
	Owner    string
	Repo     string
	URL      string
	CloneURL string
}

func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// FileRecord is one retrieved source file. Content may be size-capped;
// Size keeps the pre-truncation byte count when known.
type FileRecord struct {
	Path    string
	Name    string
	Content string
	Size    int64
}

// RepoSnapshot is a point-in-time view of a repository: metadata plus up to
// Limits.MaxFiles file records. LocalPath is set only for clone snapshots
// and is owned by the Acquirer that produced it.
type RepoSnapshot struct {
	Name        string
	FullName    string
	Description string
	Language    string
	URL         string
	Files       []FileRecord
	Source      AcquisitionSource
	LocalPath   string
}

// EvaluationResult is the normalized outcome of one evaluation: a score
// clamped to [0,100] and a non-empty markdown explanation.
type EvaluationResult struct {
	Score       int
	Explanation string
}

// RepoSummary carries the snapshot facts that survive into the report.
type RepoSummary struct {
	Name     string
	FullName string
	URL      string
	Language string
	Files    int
	Source   AcquisitionSource
}

// Report pairs the evaluation result with the repository it describes.
type Report struct {
	Repo             RepoSummary
	Result           EvaluationResult
	DescriptionChars int
}

func summarize(snap *RepoSnapshot) RepoSummary {
	return RepoSummary{
		Name:     snap.Name,
		FullName: snap.FullName,
		URL:      snap.URL,
		Language: snap.Language,
		Files:    len(snap.Files),
		Source:   snap.Source,
	}
}
