package component

import (
	"fmt"

	"github.com/gnana997/wpexport/pkg/util"
)

// LoadFile reads and decodes a page (or bare component tree) from disk.
// If cache is nil the file is read through a throwaway cache.
func LoadFile(path string, cache util.FileCache) (*Page, error) {
	if cache == nil {
		cache = util.NewFileCache(nil)
		defer cache.Close()
	}
	data, err := cache.Read(path)
	if err != nil {
		return nil, err
	}
	page, err := DecodeAny(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}
