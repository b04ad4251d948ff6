package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Input is an image file discovered under the batch input directory.
type Input struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory, slash separated.
	RelPath string
	// Key is RelPath without its extension; it names the output.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists the extensions the source decoders handle.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ScanImages walks inputDir and returns its images sorted by key. Hidden
// directories are skipped, as is any directory listed in exclude (typically
// the output directory when it lives inside the input).
func ScanImages(inputDir string, exclude ...string) ([]Input, error) {
	skip := make(map[string]bool, len(exclude))
	for _, d := range exclude {
		if abs, err := filepath.Abs(d); err == nil {
			skip[abs] = true
		}
	}

	var inputs []Input
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && skip[abs] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !imageExtensions[ext] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		inputs = append(inputs, Input{
			AbsPath: path,
			RelPath: rel,
			Key:     rel[:len(rel)-len(ext)],
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Key < inputs[j].Key })
	return inputs, nil
}
