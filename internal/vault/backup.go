package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrBackupExists indicates the backup destination already exists; the
// existing snapshot is kept and no new one is taken.
var ErrBackupExists = fmt.Errorf("backup directory already exists")

// Backup copies the whole vault tree to a sibling directory named
// <vault><suffix> and returns the backup path. Symlinks are not followed.
func Backup(vaultPath, suffix string) (string, error) {
	absVault, err := filepath.Abs(vaultPath)
	if err != nil {
		return "", err
	}

	backupDir := filepath.Join(filepath.Dir(absVault), filepath.Base(absVault)+suffix)
	if _, err := os.Stat(backupDir); err == nil {
		return backupDir, ErrBackupExists
	}

	if err := copyTree(absVault, backupDir); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupDir, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			// Sockets, devices, symlinks: skip.
			return nil
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
