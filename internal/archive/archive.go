// Package archive opens a dependency archive (.jar, .war, .ear — all ZIP
// containers) and yields the class-file entries inside it. This is the
// one place in state-scan built directly on the standard library rather
// than a pack dependency: no retrieved example specialises in JVM archive
// formats (see DESIGN.md).
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// ClassEntry is one .class member of an archive, with its raw bytes.
type ClassEntry struct {
	Name string // archive-relative path, e.g. "com/example/Service.class"
	Body []byte
}

// Walk opens the archive at path and invokes fn for every .class entry.
// The archive's file handle is opened and closed entirely within this
// call — no handle is held across phases (spec.md §5).
func Walk(path string, fn func(ClassEntry) error) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("archive: opening %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		if err := readEntry(f, fn); err != nil {
			return err
		}
	}
	return nil
}

func readEntry(f *zip.File, fn func(ClassEntry) error) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("archive: opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("archive: reading entry %s: %w", f.Name, err)
	}
	return fn(ClassEntry{Name: f.Name, Body: body})
}
