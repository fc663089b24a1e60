package pairing

import (
	"strings"

	"github.com/vmunix/tanko/internal/fileset"
)

// Pair groups classified files into import sources.
//
// Passes run in strict order, most specific first, and each pass completes
// across every metadata file before the next begins, so a perfect match for
// one volume can never be pre-empted by an eager lower-priority match for
// another. A file claimed by a pass is invisible to later passes.
//
//  1. metadata with images in its own directory
//  2. metadata with subdirectories on its own branch
//  3. metadata with a same-name sibling archive
//  4. metadata alone over chapter subdirectories (table-of-contents layout)
//  5. leftover metadata reported as orphan warnings
//  6. leftover archives as standalone sources
//  7. leftover image directories as image-only sources
//
// Every non-junk input ends up in exactly one source or the warning list.
func Pair(files []fileset.File) ([]*Source, []Warning) {
	p := &pairer{
		files:   files,
		claimed: make([]bool, len(files)),
	}

	p.matchSameDirectory()
	p.matchSameBranch()
	p.matchSiblingArchive()
	p.matchTOC()
	p.reportOrphans()
	p.matchStandaloneArchives()
	p.matchImageOnly()
	p.reportStrays()

	return p.sources, p.warnings
}

type pairer struct {
	files    []fileset.File
	claimed  []bool
	sources  []*Source
	warnings []Warning
}

// metas returns indices of unclaimed metadata files in input order.
func (p *pairer) metas() []int {
	var out []int
	for i, f := range p.files {
		if !p.claimed[i] && f.Category == fileset.CategoryMetadata {
			out = append(out, i)
		}
	}
	return out
}

// images returns indices of unclaimed images satisfying pred, in input order.
func (p *pairer) images(pred func(fileset.File) bool) []int {
	var out []int
	for i, f := range p.files {
		if !p.claimed[i] && f.Category == fileset.CategoryImage && pred(f) {
			out = append(out, i)
		}
	}
	return out
}

// hasSiblingImages reports whether any image, claimed or not, sits directly
// in dir. Claimed siblings still disqualify the table-of-contents layout.
func (p *pairer) hasSiblingImages(dir string) bool {
	for _, f := range p.files {
		if f.Category == fileset.CategoryImage && f.Parent == dir {
			return true
		}
	}
	return false
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// metaBase is the pairing base path for a metadata file: its own path
// without the extension.
func metaBase(f fileset.File) string {
	return joinPath(f.Parent, f.Stem)
}

// claimDirectory builds a directory source from image indices, with paths
// made relative to relBase.
func (p *pairer) claimDirectory(meta *fileset.File, basePath, relBase string, imgIdx []int) *Source {
	src := newSource(KindDirectory, basePath)
	src.Files = make(map[string]fileset.Blob, len(imgIdx))
	for _, i := range imgIdx {
		f := p.files[i]
		src.Files[fileset.TrimBase(f.Path, relBase)] = f.Data
		src.EstimatedSize += f.Data.Size()
		p.claimed[i] = true
	}
	if meta != nil {
		src.Metadata = meta.Data
		src.EstimatedSize += meta.Data.Size()
	}
	p.sources = append(p.sources, src)
	return src
}

// Pass 1: metadata paired with unclaimed images in its own directory.
func (p *pairer) matchSameDirectory() {
	for _, mi := range p.metas() {
		meta := p.files[mi]
		imgs := p.images(func(f fileset.File) bool {
			return f.Parent == meta.Parent
		})
		if len(imgs) == 0 {
			continue
		}
		p.claimed[mi] = true
		p.claimDirectory(&meta, metaBase(meta), meta.Parent, imgs)
	}
}

// Pass 2: metadata paired with every unclaimed directory on its own branch:
// directories equal to {parent}/{stem} or nested anywhere beneath it. The
// branch restriction keeps same-named directories in unrelated trees apart.
func (p *pairer) matchSameBranch() {
	for _, mi := range p.metas() {
		meta := p.files[mi]
		branch := metaBase(meta)
		imgs := p.images(func(f fileset.File) bool {
			return f.Parent == branch || strings.HasPrefix(f.Parent, branch+"/")
		})
		if len(imgs) == 0 {
			continue
		}
		p.claimed[mi] = true
		p.claimDirectory(&meta, branch, meta.Parent, imgs)
	}
}

// Pass 3: metadata paired with a same-stem archive in the same parent
// directory only. The strict sibling constraint prevents cross-series
// collisions when two series both ship a "vol1".
func (p *pairer) matchSiblingArchive() {
	for _, mi := range p.metas() {
		meta := p.files[mi]
		for i, f := range p.files {
			if p.claimed[i] || f.Category != fileset.CategoryArchive {
				continue
			}
			if f.Parent != meta.Parent || f.Stem != meta.Stem {
				continue
			}
			p.claimed[mi] = true
			p.claimed[i] = true

			src := newSource(KindArchive, metaBase(meta))
			src.Metadata = meta.Data
			src.Archive = f.Data
			src.ArchiveName = f.Name
			src.EstimatedSize = f.Data.Size() + meta.Data.Size()
			p.sources = append(p.sources, src)
			break
		}
	}
}

// Pass 4: table-of-contents layout. A metadata file alone in its directory
// (no sibling images at all) whose unclaimed subdirectories become named
// chapters; at least two are required, otherwise the branch passes would
// have taken it.
func (p *pairer) matchTOC() {
	for _, mi := range p.metas() {
		meta := p.files[mi]
		if p.hasSiblingImages(meta.Parent) {
			continue
		}

		imgs := p.images(func(f fileset.File) bool {
			return meta.Parent == "" || strings.HasPrefix(f.Parent, meta.Parent+"/")
		})
		if len(imgs) == 0 {
			continue
		}

		// Group by the chapter directory: the first path segment below the
		// metadata file's parent.
		chapters := make(map[string][]int)
		var order []string
		for _, i := range imgs {
			rel := fileset.TrimBase(p.files[i].Path, meta.Parent)
			slash := strings.IndexByte(rel, '/')
			if slash < 0 {
				continue // unreachable given the sibling check, kept for safety
			}
			name := rel[:slash]
			if _, ok := chapters[name]; !ok {
				order = append(order, name)
			}
			chapters[name] = append(chapters[name], i)
		}
		if len(chapters) < 2 {
			continue
		}

		src := newSource(KindTOC, metaBase(meta))
		src.Metadata = meta.Data
		src.EstimatedSize = meta.Data.Size()
		src.Chapters = make(map[string]map[string]fileset.Blob, len(chapters))
		for _, name := range order {
			chapterBase := joinPath(meta.Parent, name)
			pages := make(map[string]fileset.Blob, len(chapters[name]))
			for _, i := range chapters[name] {
				f := p.files[i]
				pages[fileset.TrimBase(f.Path, chapterBase)] = f.Data
				src.EstimatedSize += f.Data.Size()
				p.claimed[i] = true
			}
			src.Chapters[name] = pages
		}
		p.claimed[mi] = true
		p.sources = append(p.sources, src)
	}
}

// Pass 5: unclaimed metadata files become warnings. They are intentionally
// never retried against later heuristics.
func (p *pairer) reportOrphans() {
	for _, mi := range p.metas() {
		p.claimed[mi] = true
		p.warnings = append(p.warnings, Warning{
			Path:   p.files[mi].Path,
			Reason: "metadata sidecar with no matching images or archive",
		})
	}
}

// Pass 6: unclaimed archives become standalone sources. Their metadata, if
// any, is expected inside and discovered during extraction.
func (p *pairer) matchStandaloneArchives() {
	for i, f := range p.files {
		if p.claimed[i] || f.Category != fileset.CategoryArchive {
			continue
		}
		p.claimed[i] = true

		src := newSource(KindArchive, joinPath(f.Parent, f.Stem))
		src.Archive = f.Data
		src.ArchiveName = f.Name
		src.EstimatedSize = f.Data.Size()
		p.sources = append(p.sources, src)
	}
}

// Pass 7: remaining images, grouped by directory, become image-only sources.
func (p *pairer) matchImageOnly() {
	byDir := make(map[string][]int)
	var order []string
	for i, f := range p.files {
		if p.claimed[i] || f.Category != fileset.CategoryImage {
			continue
		}
		if _, ok := byDir[f.Parent]; !ok {
			order = append(order, f.Parent)
		}
		byDir[f.Parent] = append(byDir[f.Parent], i)
	}

	for _, dir := range order {
		src := p.claimDirectory(nil, dir, dir, byDir[dir])
		src.ImageOnly = true
	}
}

// Anything still unclaimed is an unsupported stray; report and move on.
func (p *pairer) reportStrays() {
	for i, f := range p.files {
		if p.claimed[i] {
			continue
		}
		p.claimed[i] = true
		p.warnings = append(p.warnings, Warning{
			Path:   f.Path,
			Reason: "not an image, archive, or metadata file",
		})
	}
}
