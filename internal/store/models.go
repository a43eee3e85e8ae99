package store

import "time"

// UnpackRun records one unpack of an archive
type UnpackRun struct {
	ID              int64
	ArchivePath     string
	ArchiveSHA256   string
	ProjectDir      string
	StartClass      string
	DescriptorRule  string // "single-candidate", "package-prefix", ..., "synthesized"
	DescriptorEntry string // empty when synthesized
	Libraries       int
	Classes         int
	Quarantined     int
	Resources       int
	BytesWritten    int64
	Decompiler      string
	Status          string // "running", "completed", "failed"
	ErrorMessage    string
	StartTime       time.Time
	EndTime         time.Time
}

// DescriptorCandidate is one pom.xml found in an archive
type DescriptorCandidate struct {
	ID       int64
	RunID    int64
	Entry    string
	Selected bool
}
