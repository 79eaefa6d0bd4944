// file: internal/backup/backup.go
// version: 2.0.0
// guid: 8f9e0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

package backup

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jdfalk/pokedex/internal/storage"
	"github.com/oklog/ulid/v2"
)

// snapshotName is the single archive member holding every key/value pair.
const snapshotName = "store.json"

// ErrChecksumMismatch is returned by Restore when the archive does not match
// its recorded checksum.
var ErrChecksumMismatch = errors.New("backup checksum mismatch")

// BackupInfo contains information about a backup
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	Entries   int       `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupConfig holds backup configuration
type BackupConfig struct {
	BackupDir        string
	MaxBackups       int
	CompressionLevel int
}

// DefaultBackupConfig returns default backup configuration
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{
		BackupDir:        "backups",
		MaxBackups:       10,
		CompressionLevel: gzip.BestCompression,
	}
}

type entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CreateBackup snapshots every key in sub into a compressed archive under
// config.BackupDir. The archive checksum is written next to it.
func CreateBackup(sub storage.Substrate, config BackupConfig) (*BackupInfo, error) {
	if err := os.MkdirAll(config.BackupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	entries, err := snapshot(sub)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	// ULIDs from one process are monotonic, so names sort by creation time
	id := ulid.Make()
	now := ulid.Time(id.Time())
	backupFilename := fmt.Sprintf("pokedex_%s.tar.gz", id)
	backupPath := filepath.Join(config.BackupDir, backupFilename)

	if err := writeArchive(backupPath, data, now, config.CompressionLevel); err != nil {
		os.Remove(backupPath)
		return nil, err
	}

	fileInfo, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup file: %w", err)
	}
	checksum, err := calculateFileChecksum(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum: %w", err)
	}
	if err := os.WriteFile(checksumPath(backupPath), []byte(checksum+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("failed to write checksum: %w", err)
	}

	info := &BackupInfo{
		Filename:  backupFilename,
		Path:      backupPath,
		Size:      fileInfo.Size(),
		Checksum:  checksum,
		Entries:   len(entries),
		CreatedAt: now,
	}
	log.Printf("[INFO] Backup created: %s (%d entries)", backupPath, len(entries))

	if config.MaxBackups > 0 {
		if err := cleanupOldBackups(config.BackupDir, config.MaxBackups); err != nil {
			log.Printf("[WARN] Failed to clean up old backups: %v", err)
		}
	}

	return info, nil
}

// RestoreBackup loads an archive into sub. With replace set, sub is wiped
// first; otherwise archived keys overwrite existing ones and other keys stay.
// With verify set, the archive must match its checksum file.
func RestoreBackup(sub storage.Substrate, backupPath string, replace, verify bool) (int, error) {
	if verify {
		if err := verifyChecksum(backupPath); err != nil {
			return 0, err
		}
	}

	data, err := readArchive(backupPath)
	if err != nil {
		return 0, err
	}
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse snapshot in %s: %w", backupPath, err)
	}

	if replace {
		if err := sub.DeleteAll(); err != nil {
			return 0, fmt.Errorf("failed to clear store before restore: %w", err)
		}
	}
	for i, e := range entries {
		if err := sub.Write(e.Key, e.Value); err != nil {
			return i, fmt.Errorf("failed to restore %s: %w", e.Key, err)
		}
	}
	log.Printf("[INFO] Restored %d entries from %s", len(entries), backupPath)
	return len(entries), nil
}

// ListBackups lists all available backups, newest first.
func ListBackups(backupDir string) ([]BackupInfo, error) {
	var backups []BackupInfo

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return backups, nil // No backups directory yet
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tar.gz") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backupPath := filepath.Join(backupDir, entry.Name())
		checksum, _ := readChecksum(backupPath)

		backups = append(backups, BackupInfo{
			Filename:  entry.Name(),
			Path:      backupPath,
			Size:      info.Size(),
			Checksum:  checksum,
			Entries:   -1,
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].Filename > backups[j].Filename })
	return backups, nil
}

// DeleteBackup deletes a specific backup file and its checksum.
func DeleteBackup(backupPath string) error {
	if err := os.Remove(backupPath); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	if err := os.Remove(checksumPath(backupPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checksum: %w", err)
	}
	return nil
}

func snapshot(sub storage.Substrate) ([]entry, error) {
	keys, err := sub.Keys("")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		value, ok, err := sub.Read(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if ok {
			entries = append(entries, entry{Key: key, Value: value})
		}
	}
	return entries, nil
}

func writeArchive(path string, data []byte, modTime time.Time, level int) error {
	backupFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer backupFile.Close()

	gzipWriter, err := gzip.NewWriterLevel(backupFile, level)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	tarWriter := tar.NewWriter(gzipWriter)

	header := &tar.Header{
		Name:    snapshotName,
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: modTime,
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}
	if _, err := tarWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to close tar writer: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	if err := backupFile.Close(); err != nil {
		return fmt.Errorf("failed to close backup file: %w", err)
	}
	return nil
}

func readArchive(path string) ([]byte, error) {
	backupFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer backupFile.Close()

	gzipReader, err := gzip.NewReader(backupFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%s: no %s in archive", path, snapshotName)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar header: %w", err)
		}
		if header.Typeflag != tar.TypeReg || header.Name != snapshotName {
			log.Printf("[WARN] Skipping unexpected archive member %s", header.Name)
			continue
		}
		data, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		return data, nil
	}
}

func checksumPath(backupPath string) string {
	return backupPath + ".sha256"
}

func readChecksum(backupPath string) (string, error) {
	data, err := os.ReadFile(checksumPath(backupPath))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func verifyChecksum(backupPath string) error {
	want, err := readChecksum(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read checksum for %s: %w", backupPath, err)
	}
	got, err := calculateFileChecksum(backupPath)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	if got != want {
		return fmt.Errorf("%s: %w", backupPath, ErrChecksumMismatch)
	}
	return nil
}

// calculateFileChecksum calculates SHA256 checksum of a file
func calculateFileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// cleanupOldBackups removes the oldest backups beyond maxBackups.
func cleanupOldBackups(backupDir string, maxBackups int) error {
	backups, err := ListBackups(backupDir)
	if err != nil {
		return err
	}
	if len(backups) <= maxBackups {
		return nil
	}

	for _, b := range backups[maxBackups:] {
		if err := DeleteBackup(b.Path); err != nil {
			log.Printf("[WARN] Failed to delete old backup %s: %v", b.Filename, err)
		}
	}
	return nil
}
