package library

import (
	"fmt"
	"os"
	"path/filepath"
)

// Problem describes one verification failure.
type Problem struct {
	VolumeID string
	Series   string
	Volume   string
	Path     string // library-relative file path, empty for volume-level problems
	Issue    string
}

// VerifyResult summarizes a reconciliation pass over catalog and disk.
type VerifyResult struct {
	Checked  int
	Passed   int
	Problems []Problem
}

// VerifyFiles checks every cataloged volume against the library root:
// each file record must exist on disk with the recorded size, and the
// stored page records must agree with the volume's page count.
func (s *Store) VerifyFiles() (*VerifyResult, error) {
	volumes, _, err := s.ListVolumes(VolumeFilter{})
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{Checked: len(volumes)}
	for _, v := range volumes {
		problems := s.verifyVolume(v)
		if len(problems) == 0 {
			result.Passed++
		}
		result.Problems = append(result.Problems, problems...)
	}
	return result, nil
}

func (s *Store) verifyVolume(v *Volume) []Problem {
	var problems []Problem
	add := func(path, issue string) {
		problems = append(problems, Problem{
			VolumeID: v.ID,
			Series:   v.SeriesName,
			Volume:   v.Name,
			Path:     path,
			Issue:    issue,
		})
	}

	files, err := s.ListFiles(v.ID)
	if err != nil {
		add("", "list files: "+err.Error())
		return problems
	}
	for _, f := range files {
		info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(f.Path)))
		switch {
		case os.IsNotExist(err):
			add(f.Path, "file missing")
		case err != nil:
			add(f.Path, "stat: "+err.Error())
		case info.Size() != f.SizeBytes:
			add(f.Path, fmt.Sprintf("size mismatch: recorded %d, on disk %d", f.SizeBytes, info.Size()))
		}
	}

	pages, err := countPages(s.db, v.ID)
	if err != nil {
		add("", "count pages: "+err.Error())
	} else if pages != v.PageCount {
		add("", fmt.Sprintf("page records: recorded %d, stored %d", v.PageCount, pages))
	}

	return problems
}
