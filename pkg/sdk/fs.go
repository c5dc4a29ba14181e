package sdk

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yggdrasil-au/remake-operator/internal/fileutil"
)

// Every filesystem helper checks the allow-listed path first; on denial it
// emits an error event and returns the type-appropriate failure value
// (spec §4.5).

func (s *SDK) checkPath(path string) bool {
	if s.Policy.AllowedPath(path) {
		return true
	}
	s.Error("path not allowed: " + path)
	return false
}

func (s *SDK) EnsureDir(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	return fileutil.EnsureDir(path) == nil
}

func (s *SDK) Mkdir(path string) bool { return s.EnsureDir(path) }

func (s *SDK) PathExists(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	return fileutil.Exists(path)
}

func (s *SDK) Lexists(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	_, err := os.Lstat(path)
	return err == nil
}

func (s *SDK) IsDir(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	return fileutil.IsDir(path)
}

func (s *SDK) IsFile(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	return fileutil.IsFile(path)
}

func (s *SDK) IsWritable(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return os.IsNotExist(err) && s.IsWritable(filepath.Dir(path))
	}
	_ = f.Close()
	return true
}

func (s *SDK) RemoveDir(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	return fileutil.RemoveAll(path) == nil
}

func (s *SDK) RemoveFile(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	return os.Remove(path) == nil
}

func (s *SDK) CopyFile(src, dst string) bool {
	if !s.checkPath(src) || !s.checkPath(dst) {
		return false
	}
	return fileutil.CopyFile(src, dst) == nil
}

func (s *SDK) CopyDir(src, dst string, overwrite bool) bool {
	if !s.checkPath(src) || !s.checkPath(dst) {
		return false
	}
	if overwrite {
		_ = os.RemoveAll(dst)
	}
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return fileutil.CopyFile(path, target)
	})
	return err == nil
}

func (s *SDK) MoveDir(src, dst string) bool {
	if !s.checkPath(src) || !s.checkPath(dst) {
		return false
	}
	if err := os.Rename(src, dst); err == nil {
		return true
	}
	if !s.CopyDir(src, dst, true) {
		return false
	}
	return fileutil.RemoveAll(src) == nil
}

func (s *SDK) RenameFile(src, dst string) bool {
	if !s.checkPath(src) || !s.checkPath(dst) {
		return false
	}
	return os.Rename(src, dst) == nil
}

func (s *SDK) CreateSymlink(target, link string) bool {
	if !s.checkPath(link) {
		return false
	}
	return os.Symlink(target, link) == nil
}

func (s *SDK) IsSymlink(path string) bool {
	if !s.checkPath(path) {
		return false
	}
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func (s *SDK) Realpath(path string) (string, bool) {
	if !s.checkPath(path) {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	return resolved, true
}

func (s *SDK) Readlink(path string) (string, bool) {
	if !s.checkPath(path) {
		return "", false
	}
	target, err := os.Readlink(path)
	if err != nil {
		return "", false
	}
	return target, true
}

func (s *SDK) CreateHardlink(target, link string) bool {
	if !s.checkPath(link) {
		return false
	}
	return os.Link(target, link) == nil
}

func (s *SDK) WriteFile(path string, content []byte) bool {
	if !s.checkPath(path) {
		return false
	}
	return fileutil.WriteFile(path, content) == nil
}

func (s *SDK) ReadFile(path string) ([]byte, bool) {
	if !s.checkPath(path) {
		return nil, false
	}
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *SDK) Sha1File(path string) (string, bool) {
	if !s.checkPath(path) {
		return "", false
	}
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", false
	}
	return hex.EncodeToString(h.Sum(nil)), true
}

func (s *SDK) Md5(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (s *SDK) Sleep(seconds float64) {
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}

func (s *SDK) ListDir(path string) ([]string, bool) {
	if !s.checkPath(path) {
		return nil, false
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, false
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, true
}

func (s *SDK) Attributes(path string) (map[string]any, bool) {
	if !s.checkPath(path) {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return map[string]any{
		"size":     info.Size(),
		"mode":     info.Mode().String(),
		"mod_time": info.ModTime().UTC().Format(time.RFC3339),
		"is_dir":   info.IsDir(),
	}, true
}

func (s *SDK) CurrentDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
