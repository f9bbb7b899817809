package driver

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/JustAPerson/denuocc-sub000/front"
	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

const includeCacheSize = 256

// FileResolver finds included files on a filesystem.
//
// `#include "name"` is searched for in the directory of the including file,
// then the working directory, then the extra files and the system paths.
// `#include <name>` only searches the extra files and the system paths.
// Extra files held in memory are found before those mapped to a path.
//
// File contents are cached, so a header included by many translation units
// is read once.
type FileResolver struct {
	fs          afero.Fs
	systemPaths []string
	extraFiles  map[string]string
	contents    map[string]string
	cache       *lru.Cache[string, string]
}

func NewFileResolver(fs afero.Fs, systemPaths []string, extraFiles map[string]string) *FileResolver {
	cache, err := lru.New[string, string](includeCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &FileResolver{
		fs:          fs,
		systemPaths: systemPaths,
		extraFiles:  extraFiles,
		contents:    map[string]string{},
		cache:       cache,
	}
}

// AddContent makes content includable as alias. The resulting input is
// named alias and has no path.
func (r *FileResolver) AddContent(alias, content string) {
	r.contents[alias] = content
}

// Resolve implements front.IncludeResolver. It returns nil and no error
// when name cannot be found.
func (r *FileResolver) Resolve(name string, system bool, including *front.Input) (*front.Input, error) {
	if filepath.IsAbs(name) {
		return r.open(name, name)
	}

	if !system {
		if including != nil && including.Path != "" {
			in, err := r.open(name, filepath.Join(filepath.Dir(including.Path), name))
			if in != nil || err != nil {
				return in, err
			}
		}
		in, err := r.open(name, filepath.Clean(name))
		if in != nil || err != nil {
			return in, err
		}
	}

	if content, ok := r.contents[name]; ok {
		return front.NewInput(name, content, ""), nil
	}
	if path, ok := r.extraFiles[name]; ok {
		in, err := r.open(name, path)
		if err != nil {
			return nil, err
		}
		if in == nil {
			return nil, errors.WithStack(InputFileError{File: path, Err: os.ErrNotExist})
		}
		return in, nil
	}

	for _, dir := range r.systemPaths {
		in, err := r.open(name, filepath.Join(dir, name))
		if in != nil || err != nil {
			return in, err
		}
	}
	return nil, nil
}

// Reads path if it names a regular file. name is the spelling in the
// `#include` line, used for extra files which have no path of their own.
func (r *FileResolver) open(name, path string) (*front.Input, error) {
	content, ok := r.cache.Get(path)
	if !ok {
		info, err := r.fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, errors.WithStack(InputFileError{File: path, Err: err})
		}
		if info.IsDir() {
			return nil, nil
		}

		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return nil, errors.WithStack(InputFileError{File: path, Err: err})
		}
		content = string(data)
		r.cache.Add(path, content)
		log.Debug("read include `%s` from %s", name, path)
	}
	return front.NewInput(path, content, path), nil
}
