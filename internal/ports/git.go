package ports

import "context"

// GitInfo is the repository a run was started in.
type GitInfo struct {
	Branch     string
	Commit     string
	Repository string
}

// GitDetector finds the repository around a working directory.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect reads HEAD of the repository containing workingDir.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
