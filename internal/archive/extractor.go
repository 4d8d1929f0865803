package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/deck2video/internal/models"
)

var (
	reSlideRels   = regexp.MustCompile(`^` + regexp.QuoteMeta(relsDir) + `slide(\d+)\.xml\.rels$`)
	reMediaTarget = regexp.MustCompile(`Target="(?:\.\./|/ppt/)media/([^"]+)"`)
	reTrailingNum = regexp.MustCompile(`^(.*?)(\d+)$`)
)

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// Package is the extraction result: every usable image plus the per-slide references
type Package struct {
	Assets        map[string]models.MediaAsset
	Relationships models.RelationshipMap
}

// SlideImage pairs a slide ordinal with the image chosen for it. Missing is set when the
// slide references an image that was not extracted; Asset then carries only its name.
type SlideImage struct {
	Ordinal int
	Asset   models.MediaAsset
	Missing bool
}

// Open reads the package at path
func (e *implExtractor) Open(ctx context.Context, pkgPath string) (*Package, error) {
	zr, err := zip.OpenReader(pkgPath)
	if err != nil {
		return nil, &PackageFormatError{Path: pkgPath, Err: err}
	}
	defer zr.Close()

	e.logger.Debug(ctx, "Opened %s (%d entries)", pkgPath, len(zr.File))
	return e.extract(ctx, zr.File)
}

// Read reads a package held in memory or any other random-access source
func (e *implExtractor) Read(ctx context.Context, r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &PackageFormatError{Err: err}
	}
	return e.extract(ctx, zr.File)
}

func (e *implExtractor) extract(ctx context.Context, files []*zip.File) (*Package, error) {
	pkg := &Package{
		Assets:        make(map[string]models.MediaAsset),
		Relationships: make(models.RelationshipMap),
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch {
		case e.isMedia(f.Name):
			data, err := readEntry(f)
			if err != nil {
				return nil, &PackageFormatError{Err: fmt.Errorf("read %s: %w", f.Name, err)}
			}
			name := path.Base(f.Name)
			pkg.Assets[name] = models.MediaAsset{
				Name:        name,
				ContentType: contentTypes[strings.ToLower(path.Ext(name))],
				Data:        data,
			}

		case reSlideRels.MatchString(f.Name):
			m := reSlideRels.FindStringSubmatch(f.Name)
			ordinal, err := strconv.Atoi(m[1])
			if err != nil || ordinal < 1 {
				e.logger.Warn(ctx, "Skipping descriptor with bad ordinal: %s", f.Name)
				continue
			}
			data, err := readEntry(f)
			if err != nil {
				return nil, &PackageFormatError{Err: fmt.Errorf("read %s: %w", f.Name, err)}
			}
			pkg.Relationships[ordinal] = parseMediaTargets(data)
		}
	}

	e.logger.Info(ctx, "Extracted %d media assets and %d slide descriptors", len(pkg.Assets), len(pkg.Relationships))
	return pkg, nil
}

func (e *implExtractor) isMedia(name string) bool {
	if !strings.HasPrefix(name, mediaDir) || strings.HasSuffix(name, "/") {
		return false
	}
	return e.extensions[strings.ToLower(path.Ext(name))]
}

// SlideImages resolves each slide to its first referenced image, in ascending ordinal order.
// Slides whose first reference is not an extracted asset keep their place with Missing set.
// Slides with no media reference at all are left out and reported in skipped. A package
// without any descriptors yields one slide per asset in natural filename order.
func (p *Package) SlideImages() (images []SlideImage, skipped []int) {
	if len(p.Relationships) == 0 {
		names := make([]string, 0, len(p.Assets))
		for name := range p.Assets {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
		for i, name := range names {
			images = append(images, SlideImage{Ordinal: i + 1, Asset: p.Assets[name]})
		}
		return images, nil
	}

	for _, ordinal := range p.Relationships.Ordinals() {
		refs := p.Relationships[ordinal]
		if len(refs) == 0 {
			skipped = append(skipped, ordinal)
			continue
		}
		asset, ok := p.Assets[refs[0]]
		if !ok {
			images = append(images, SlideImage{Ordinal: ordinal, Asset: models.MediaAsset{Name: refs[0]}, Missing: true})
			continue
		}
		images = append(images, SlideImage{Ordinal: ordinal, Asset: asset})
	}
	return images, skipped
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// naturalLess orders "image2.png" before "image10.png".
func naturalLess(a, b string) bool {
	sa, na, okA := splitNumber(a)
	sb, nb, okB := splitNumber(b)
	if okA && okB && sa == sb && na != nb {
		return na < nb
	}
	return a < b
}

func splitNumber(name string) (string, int, bool) {
	stem := strings.TrimSuffix(name, path.Ext(name))
	m := reTrailingNum.FindStringSubmatch(stem)
	if m == nil {
		return stem, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return stem, 0, false
	}
	return m[1], n, true
}
