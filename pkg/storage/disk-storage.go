package storage

import (
	"errors"
	"io/fs"
	"os"
	"path"
)

const valueSuffix = ".json"

func (d *DiskStorage) ensureFolder() error {
	return os.MkdirAll(path.Join(d.RootFolder, d.Namespace), 0755)
}

func (d *DiskStorage) Get(key string) (string, bool, error) {
	fileName, _ := d.GetFileName(key + valueSuffix)
	data, err := os.ReadFile(fileName)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Set writes through a temporary file so readers never see a partial value.
func (d *DiskStorage) Set(key string, value string) error {
	if err := d.ensureFolder(); err != nil {
		return err
	}
	fileName, tmpFileName := d.GetFileName(key + valueSuffix)
	if err := os.WriteFile(tmpFileName, []byte(value), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpFileName, fileName); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return nil
}

func (d *DiskStorage) Remove(key string) error {
	fileName, _ := d.GetFileName(key + valueSuffix)
	err := os.Remove(fileName)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
