package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// WorkspaceFileName is the per-directory file that pins a default project.
const WorkspaceFileName = ".tudu"

// workspaceProjectKey is the key read from the workspace file.
const workspaceProjectKey = "PROJECT_ID"

// FindWorkspaceFile looks for a .tudu file in startDir and each of its
// parents. It returns the absolute path of the first match.
func FindWorkspaceFile(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, WorkspaceFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// WorkspaceProjectID returns the PROJECT_ID pinned by the nearest .tudu file
// above startDir. ok is false when there is no file or the key is absent.
func WorkspaceProjectID(startDir string) (id int64, ok bool, err error) {
	path, found := FindWorkspaceFile(startDir)
	if !found {
		return 0, false, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return 0, false, fmt.Errorf("reading %s: %w", path, err)
	}
	raw, present := values[workspaceProjectKey]
	if !present || strings.TrimSpace(raw) == "" {
		return 0, false, nil
	}

	id, err = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parsing %s in %s: %w", workspaceProjectKey, path, err)
	}
	return id, true, nil
}

// WriteWorkspaceFile pins projectID for dir by writing dir/.tudu.
func WriteWorkspaceFile(dir string, projectID int64) (string, error) {
	if projectID <= 0 {
		return "", errors.New("project id must be positive")
	}
	path := filepath.Join(dir, WorkspaceFileName)
	err := godotenv.Write(map[string]string{
		workspaceProjectKey: strconv.FormatInt(projectID, 10),
	}, path)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
