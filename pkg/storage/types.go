package storage

import (
	"fmt"
	"net/url"
	"path"
	"time"
)

type DiskStorage struct {
	Namespace  string
	RootFolder string
}

func NewDiskStorage(namespace, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Namespace:  namespace,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, ds.Namespace, url.PathEscape(name))
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}
