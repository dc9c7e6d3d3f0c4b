package filestore

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDiskCreateAndGet(t *testing.T) {
	base := t.TempDir()
	dd := NewDiskFileManager(base)

	dir, name := dd.GetResultsFilePathAndName("abc")
	assert.Equal(t, filepath.Join(base, "results", "abc"), dir)
	assert.Equal(t, "itemsets_abc.txt", name)

	reader := strings.NewReader("hello\n")
	reader.Seek(3, 0)
	err := dd.Create(dir, name, reader)
	assert.Nil(t, err)

	rc, err := dd.Get(dir, name)
	assert.Nil(t, err)
	defer rc.Close()
	content, err := ioutil.ReadAll(rc)
	assert.Nil(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestDiskGetMissing(t *testing.T) {
	dd := NewDiskFileManager(t.TempDir())
	dir, name := dd.GetTreeFilePathAndName("nope")
	assert.Equal(t, "tree_nope.txt", name)
	_, err := dd.Get(dir, name)
	assert.NotNil(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
