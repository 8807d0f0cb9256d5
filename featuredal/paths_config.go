package featuredal

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
)

type PathsConfig struct {
	StylesDir string
	DataDir   string
	TraceDir  string
}

func (pc *PathsConfig) EnsurePaths(fs gofs.Fs) errorsx.Error {
	for _, dirPath := range []string{pc.StylesDir, pc.DataDir, pc.TraceDir} {
		if dirPath == "" {
			continue
		}

		err := fs.MkdirAll(dirPath, 0755)
		if err != nil {
			return errorsx.Wrap(err, "dirPath", dirPath)
		}
	}

	return nil
}
