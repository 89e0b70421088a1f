package asmrgo

import (
	"archive/zip"
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

// AddJar streams the zip at path, registering every .class entry with p via
// AddClass, keyed by its entry path with the .class suffix and any leading
// slash removed. It digests the whole jar file with SHA-1 and returns the
// base64 encoding of that digest; when it matches oldChecksum (the value
// returned by a prior AddJar call against the same path, or "" for a jar
// never seen before), the jar's contents are unchanged and no classes are
// re-registered or cache entries invalidated. Otherwise every .class entry
// is (re-)registered and the processor's cache is invalidated, since a
// caller reusing a Processor across jar revisions can no longer trust
// anything it previously derived from this jar's classes.
func AddJar(p *Processor, path string, oldChecksum string, reader Reader) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading jar %q: %w", path, err)
	}
	sum := sha1.Sum(data)
	newChecksum := base64.StdEncoding.EncodeToString(sum[:])
	if newChecksum == oldChecksum {
		return newChecksum, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening jar %q: %w", path, err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening jar entry %q: %w", f.Name, err)
		}
		classData, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("reading jar entry %q: %w", f.Name, err)
		}
		className := strings.TrimSuffix(strings.TrimPrefix(f.Name, "/"), ".class")
		p.AddClass(className, classData, reader)
	}
	p.InvalidateCache()
	return newChecksum, nil
}
