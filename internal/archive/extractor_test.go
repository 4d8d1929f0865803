package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nguyentantai21042004/deck2video/internal/logger"
)

func rels(targets ...string) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i, t := range targets {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="%s"/>`, i+1, t)
	}
	b.WriteString(`<Relationship Id="rLayout" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	b.WriteString(`</Relationships>`)
	return b.String()
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func read(t *testing.T, data []byte) *Package {
	t.Helper()
	ex := New([]string{".png", ".jpg", "jpeg"}, logger.Nop())
	pkg, err := ex.Read(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return pkg
}

func TestExtractAssetsAndRelationships(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/media/image1.png":                  "one",
		"ppt/media/image2.JPEG":                 "two",
		"ppt/media/chart.emf":                   "vector",
		"ppt/slides/slide1.xml":                 "<p:sld/>",
		"ppt/slides/_rels/slide1.xml.rels":      rels("../media/image1.png"),
		"ppt/slides/_rels/slide2.xml.rels":      rels("../media/image2.JPEG", "../media/image1.png"),
		"ppt/slideLayouts/_rels/slide9.xml.rels": rels("../media/image1.png"),
		"docProps/thumbnail.jpeg":               "thumb",
	})

	pkg := read(t, data)

	if len(pkg.Assets) != 2 {
		t.Fatalf("Assets = %d, want 2 (emf and non-media excluded)", len(pkg.Assets))
	}
	if got := pkg.Assets["image2.JPEG"].ContentType; got != "image/jpeg" {
		t.Errorf("ContentType = %q, want image/jpeg", got)
	}
	if string(pkg.Assets["image1.png"].Data) != "one" {
		t.Errorf("asset data not preserved")
	}

	want := map[int][]string{
		1: {"image1.png"},
		2: {"image2.JPEG", "image1.png"},
	}
	if !reflect.DeepEqual(map[int][]string(pkg.Relationships), want) {
		t.Errorf("Relationships = %v, want %v", pkg.Relationships, want)
	}
}

func TestSlideImagesOrderedByDescriptorSuffix(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/media/a.png":                   "a",
		"ppt/media/b.png":                   "b",
		"ppt/media/c.png":                   "c",
		"ppt/slides/_rels/slide10.xml.rels": rels("../media/c.png"),
		"ppt/slides/_rels/slide2.xml.rels":  rels("../media/b.png"),
		"ppt/slides/_rels/slide1.xml.rels":  rels("../media/a.png"),
	})

	images, skipped := read(t, data).SlideImages()
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}

	var gotOrd []int
	var gotNames []string
	for _, im := range images {
		gotOrd = append(gotOrd, im.Ordinal)
		gotNames = append(gotNames, im.Asset.Name)
	}
	if !reflect.DeepEqual(gotOrd, []int{1, 2, 10}) {
		t.Errorf("ordinals = %v, want [1 2 10]", gotOrd)
	}
	if !reflect.DeepEqual(gotNames, []string{"a.png", "b.png", "c.png"}) {
		t.Errorf("names = %v", gotNames)
	}
}

func TestSlideImagesFirstReferenceOnly(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/media/first.png":              "1",
		"ppt/media/second.png":             "2",
		"ppt/slides/_rels/slide1.xml.rels": rels("../media/first.png", "../media/second.png"),
	})

	images, _ := read(t, data).SlideImages()
	if len(images) != 1 || images[0].Asset.Name != "first.png" {
		t.Errorf("images = %+v, want only first.png", images)
	}
}

func TestSlideImagesKeepsUnresolvedInPlace(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/media/ok.png":                 "ok",
		"ppt/media/vector.emf":             "emf",
		"ppt/slides/_rels/slide1.xml.rels": rels("../media/ok.png"),
		"ppt/slides/_rels/slide2.xml.rels": rels("../media/vector.emf", "../media/ok.png"),
		"ppt/slides/_rels/slide3.xml.rels": rels(),
		"ppt/slides/_rels/slide4.xml.rels": rels("../media/missing.png"),
		"ppt/slides/_rels/slide5.xml.rels": rels("../media/ok.png"),
	})

	images, skipped := read(t, data).SlideImages()

	tests := []struct {
		ordinal int
		name    string
		missing bool
	}{
		{1, "ok.png", false},
		{2, "vector.emf", true},
		{4, "missing.png", true},
		{5, "ok.png", false},
	}
	if len(images) != len(tests) {
		t.Fatalf("images = %+v, want %d entries", images, len(tests))
	}
	for i, tt := range tests {
		im := images[i]
		if im.Ordinal != tt.ordinal || im.Asset.Name != tt.name || im.Missing != tt.missing {
			t.Errorf("images[%d] = {%d %s missing=%v}, want {%d %s missing=%v}",
				i, im.Ordinal, im.Asset.Name, im.Missing, tt.ordinal, tt.name, tt.missing)
		}
		if tt.missing && im.Asset.Data != nil {
			t.Errorf("images[%d] carries data for a missing asset", i)
		}
	}
	if !reflect.DeepEqual(skipped, []int{3}) {
		t.Errorf("skipped = %v, want [3]", skipped)
	}
}

func TestSlideImagesWithoutDescriptors(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/media/image10.png": "10",
		"ppt/media/image2.png":  "2",
		"ppt/media/image1.png":  "1",
	})

	images, _ := read(t, data).SlideImages()
	var names []string
	for i, im := range images {
		if im.Ordinal != i+1 {
			t.Errorf("image %d ordinal = %d", i, im.Ordinal)
		}
		names = append(names, im.Asset.Name)
	}
	want := []string{"image1.png", "image2.png", "image10.png"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestEmptyPackage(t *testing.T) {
	data := buildZip(t, map[string]string{"[Content_Types].xml": "<Types/>"})
	images, skipped := read(t, data).SlideImages()
	if len(images) != 0 || len(skipped) != 0 {
		t.Errorf("images = %v skipped = %v, want none", images, skipped)
	}
}

func TestCorruptPackage(t *testing.T) {
	ex := New([]string{".png"}, logger.Nop())
	data := []byte("definitely not a zip")

	_, err := ex.Read(context.Background(), bytes.NewReader(data), int64(len(data)))
	var pfe *PackageFormatError
	if !errors.As(err, &pfe) {
		t.Fatalf("Read() error = %v, want PackageFormatError", err)
	}

	path := filepath.Join(t.TempDir(), "broken.pptx")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	_, err = ex.Open(context.Background(), path)
	if !errors.As(err, &pfe) || pfe.Path != path {
		t.Fatalf("Open() error = %v, want PackageFormatError for %s", err, path)
	}
}

func TestParseMediaTargets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"xml", rels("../media/x.png", "../media/y.jpg"), []string{"x.png", "y.jpg"}},
		{"absolute target", rels("/ppt/media/abs.png"), []string{"abs.png"}},
		{"no media", rels(), nil},
		{"malformed falls back to scan", `<Relationships><Relationship Target="../media/z.png"`, []string{"z.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMediaTargets([]byte(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseMediaTargets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"image2.png", "image10.png", true},
		{"image10.png", "image2.png", false},
		{"a.png", "b.png", true},
		{"photo1.png", "image2.png", false},
	}

	for _, tt := range tests {
		if got := naturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
