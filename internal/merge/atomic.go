package merge

import (
	"fmt"
	"os"
	"path/filepath"
)

// renameFile is swappable in tests to simulate mid-write failures.
var renameFile = os.Rename

// WriteFileAtomic writes data to path via a temporary file in the same
// directory followed by a rename, so external readers never observe a
// partially written target. The original file is untouched if any step
// before the rename fails.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "creating temporary file for", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	cleanup := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: op, Path: path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup("writing temporary file for", err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup("syncing temporary file for", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup("setting permissions on temporary file for", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "closing temporary file for", Path: path, Err: err}
	}

	if err := renameFile(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "replacing", Path: path, Err: err}
	}
	return nil
}

// makeBackup copies the current target contents to a sibling backup before
// mutation. The name never collides with an existing backup: <name>.bak,
// then <name>.bak.1, <name>.bak.2 and so on.
func makeBackup(path, contents string) (string, error) {
	backup := backupPath(path)
	if err := os.WriteFile(backup, []byte(contents), 0o644); err != nil {
		return "", &IOError{Op: "writing backup", Path: backup, Err: err}
	}
	return backup, nil
}

// backupPath picks the first non-colliding backup name for a target.
func backupPath(path string) string {
	candidate := path + ".bak"
	for n := 1; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s.bak.%d", path, n)
	}
}
