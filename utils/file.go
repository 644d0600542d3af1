package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CreateFolderIfNotExists makes path (and any missing parents) when absent.
func CreateFolderIfNotExists(path string) (created bool, err error) {
	if _, err = os.Stat(path); err == nil {
		return
	}
	if !os.IsNotExist(err) {
		return
	}
	if err = os.MkdirAll(path, os.ModePerm); err == nil {
		created = true
	}
	return
}

// GetUniqSubDir creates and returns a uniquely named sub directory, used
// as scratch space around format conversions.
func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.MkdirAll(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// SplitLayerPath splits a dataset path into its folder and layer (base
// name) parts, the shape most OGR drivers want them in.
func SplitLayerPath(path string) (folder, layer string) {
	folder = filepath.Dir(path)
	layer = filepath.Base(path)
	return
}
