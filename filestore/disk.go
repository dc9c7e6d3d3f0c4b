package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DiskFileManager keeps files under a base directory on local disk.
type DiskFileManager struct {
	baseDir string
}

func NewDiskFileManager(baseDir string) *DiskFileManager {
	return &DiskFileManager{baseDir: baseDir}
}

func (dd *DiskFileManager) Create(dir, fileName string, reader io.ReadSeeker) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.WithError(err).WithField("dir", dir).Error("Failed to create dir")
		return errors.Wrapf(err, "create dir %s", dir)
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewind reader")
	}

	path := filepath.Join(dir, fileName)
	file, err := os.Create(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to create file")
		return errors.Wrapf(err, "create file %s", path)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return errors.Wrapf(err, "write file %s", path)
	}
	return nil
}

func (dd *DiskFileManager) Get(dir, fileName string) (io.ReadCloser, error) {
	path := filepath.Join(dir, fileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open file %s", path)
	}
	return file, nil
}

func (dd *DiskFileManager) getKeyDir(key string) string {
	return filepath.Join(dd.baseDir, "results", key)
}

func (dd *DiskFileManager) GetResultsFilePathAndName(key string) (string, string) {
	return dd.getKeyDir(key), fmt.Sprintf("itemsets_%s.txt", key)
}

func (dd *DiskFileManager) GetTreeFilePathAndName(key string) (string, string) {
	return dd.getKeyDir(key), fmt.Sprintf("tree_%s.txt", key)
}
