package fileset

import "strings"

// junkDirs are path segments that mark a whole subtree as system junk.
var junkDirs = map[string]bool{
	"__macosx": true,
	".git":     true,
	".svn":     true,
	".hg":      true,
	"@eadir":   true,
	".trashes": true,
}

// junkNames are exact filenames that are system junk wherever they appear.
var junkNames = map[string]bool{
	".ds_store":   true,
	"thumbs.db":   true,
	"ehthumbs.db": true,
	"desktop.ini": true,
	".nomedia":    true,
	".directory":  true,
}

// IsJunk reports whether a path refers to OS metadata, version-control
// content, or thumbnail caches. The same check runs on locally collected
// files and on archive entry names so pairing results do not depend on the
// file's origin.
func IsJunk(path string) bool {
	p := strings.ToLower(NormalizePath(path))
	for _, seg := range strings.Split(p, "/") {
		if junkDirs[seg] || junkNames[seg] {
			return true
		}
		// AppleDouble resource forks ("._page001.jpg").
		if strings.HasPrefix(seg, "._") {
			return true
		}
	}
	return false
}
