package sdk

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractArchive unpacks src into dst. Only zip is built in — other
// formats return an error naming a tool the caller should shell out to
// via run_process instead (spec §4.5); no zip/archive container library
// exists anywhere in the source corpus, so this one concern is carried on
// the standard library's archive/zip.
func (s *SDK) ExtractArchive(src, dst string) bool {
	if !s.checkPath(src) || !s.checkPath(dst) {
		return false
	}
	if !strings.EqualFold(filepath.Ext(src), ".zip") {
		s.Error(fmt.Sprintf("extract_archive: unsupported format %q; use run_process with 7z/tar for non-zip archives", filepath.Ext(src)))
		return false
	}

	r, err := zip.OpenReader(src)
	if err != nil {
		s.Error("extract_archive: " + err.Error())
		return false
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dst, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) && target != filepath.Clean(dst) {
			s.Error("extract_archive: illegal path in zip entry: " + f.Name)
			return false
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				s.Error("extract_archive: " + err.Error())
				return false
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			s.Error("extract_archive: " + err.Error())
			return false
		}
		if err := extractOne(f, target); err != nil {
			s.Error("extract_archive: " + err.Error())
			return false
		}
	}
	return true
}

func extractOne(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// CreateArchive zips src (a file or directory) into dst. format must be
// "zip" — any other value is rejected (spec §4.5 "create_archive(src,
// dst, \"zip\")").
func (s *SDK) CreateArchive(src, dst, format string) bool {
	if !strings.EqualFold(format, "zip") {
		s.Error("create_archive: unsupported format " + format)
		return false
	}
	if !s.checkPath(src) || !s.checkPath(dst) {
		return false
	}

	out, err := os.Create(dst)
	if err != nil {
		s.Error("create_archive: " + err.Error())
		return false
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	info, err := os.Stat(src)
	if err != nil {
		s.Error("create_archive: " + err.Error())
		return false
	}
	if !info.IsDir() {
		return s.addZipFile(zw, src, filepath.Base(src))
	}

	walkErr := filepath.Walk(src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return zipFile(zw, path, filepath.ToSlash(rel))
	})
	if walkErr != nil {
		s.Error("create_archive: " + walkErr.Error())
		return false
	}
	return true
}

func (s *SDK) addZipFile(zw *zip.Writer, path, name string) bool {
	if err := zipFile(zw, path, name); err != nil {
		s.Error("create_archive: " + err.Error())
		return false
	}
	return true
}

func zipFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
