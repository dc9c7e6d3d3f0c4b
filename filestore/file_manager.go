package filestore

import (
	"io"
)

type FileManager interface {
	Create(dir, fileName string, reader io.ReadSeeker) error
	Get(path, fileName string) (io.ReadCloser, error)
	GetResultsFilePathAndName(key string) (string, string)
	GetTreeFilePathAndName(key string) (string, string)
}
