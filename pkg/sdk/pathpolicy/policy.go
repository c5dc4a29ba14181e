// Package pathpolicy encapsulates the SDK's executable and path allow-list
// as two predicates (AllowedExecutable, AllowedPath) plus two
// side-effecting calls (ApproveRootInteractive, MarkResolvedTool). The
// session-approved root set and the resolved-tool set are its only
// mutable state, and both only ever grow.
package pathpolicy

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// blockedUtilities is the spec §4.4 blocked-system-utility list, matched
// case-insensitively against the executable basename with or without
// extension.
var blockedUtilities = map[string]string{
	"copy":    "sdk.copy_dir(src, dst, overwrite) or sdk.copy_file(src, dst)",
	"xcopy":   "sdk.copy_dir(src, dst, overwrite)",
	"robocopy": "sdk.copy_dir(src, dst, overwrite)",
	"move":    "sdk.move_dir(src, dst)",
	"ren":     "sdk.rename_file(src, dst)",
	"rename":  "sdk.rename_file(src, dst)",
	"cp":      "sdk.copy_file(src, dst) or sdk.copy_dir(src, dst, overwrite)",
	"mv":      "sdk.move_dir(src, dst) or sdk.rename_file(src, dst)",
	"rm":      "sdk.remove_file(path) or sdk.remove_dir(path)",
	"mkdir":   "sdk.ensure_dir(path)",
	"rmdir":   "sdk.remove_dir(path)",
	"tar":     "sdk.extract_archive(src, dst) or sdk.create_archive(src, dst, \"zip\")",
	"unzip":   "sdk.extract_archive(src, dst)",
	"7z":      "sdk.extract_archive(src, dst)",
	"7za":     "sdk.extract_archive(src, dst)",
}

// approvedTools is the approved-basename sample set from spec §4.4.
var approvedTools = map[string]bool{
	"blender":        true,
	"quickbms":       true,
	"godot":          true,
	"vgmstream-cli":  true,
	"ffmpeg":         true,
	"git":            true,
	"pwsh":           true,
	"powershell":     true,
	"python":         true,
	"node":           true,
	"npm":            true,
}

var deniedPrefixes = []string{
	"/windows/system32", "/windows/syswow64",
	"/program files", "/program files (x86)",
	"/etc/", "/bin/", "/sbin/", "/usr/bin/", "/usr/sbin/",
	"/sys/", "/proc/", "/dev/",
}

// Policy holds the static context (repo root etc.) plus the mutable,
// append-only session-approved path set (spec §4.5, §5).
type Policy struct {
	repoRoot   string
	systemTemp string
	userHome   string
	userDocs   string

	resolvedTools map[string]bool // executables the tool resolver previously returned

	mu       sync.Mutex
	approved []string // normalized roots approved interactively this session
}

// New builds a Policy rooted at repoRoot.
func New(repoRoot, systemTemp, userHome, userDocs string) *Policy {
	return &Policy{
		repoRoot:      normalize(repoRoot),
		systemTemp:    normalize(systemTemp),
		userHome:      normalize(userHome),
		userDocs:      normalize(userDocs),
		resolvedTools: map[string]bool{},
	}
}

// MarkResolvedTool records a path the tool resolver returned, so later
// calls to AllowedExecutable accept it.
func (p *Policy) MarkResolvedTool(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolvedTools[normalize(path)] = true
}

// AllowedExecutable reports (ok, rejectionMessage). ok is false with a
// populated rejectionMessage when the basename is a blocked system
// utility; ok is true when the basename is approved, the path contains a
// "Tools/" component, or the path was previously resolved by the tool
// resolver.
func (p *Policy) AllowedExecutable(path string) (bool, string) {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if alt, blocked := blockedUtilities[base]; blocked {
		return false, "SECURITY: System utility '" + base + "' is blocked for security. Use SDK alternative: " + alt
	}

	if approvedTools[base] {
		return true, ""
	}
	if strings.Contains(strings.ToLower(filepath.ToSlash(path)), "tools/") {
		return true, ""
	}
	p.mu.Lock()
	resolved := p.resolvedTools[normalize(path)]
	p.mu.Unlock()
	if resolved {
		return true, ""
	}
	return false, "SECURITY: executable '" + path + "' is not on the tool allow-list"
}

// AllowedPath reports whether path lies under an allowed prefix: the
// standard set (cwd, repo root, EngineApps, gamefiles, tools, tmp,
// source, system temp, user profile/documents) or a session-approved
// root. Relative paths always pass.
func (p *Policy) AllowedPath(path string) bool {
	if !filepath.IsAbs(path) {
		return true
	}
	norm := normalize(path)

	for _, denied := range deniedPrefixes {
		if strings.HasPrefix(norm, denied) {
			return false
		}
	}

	cwd := ""
	if wd, err := filepathAbs("."); err == nil {
		cwd = normalize(wd)
	}

	standard := []string{
		cwd,
		p.repoRoot,
		join(p.repoRoot, "engineapps"),
		join(p.repoRoot, "gamefiles"),
		join(p.repoRoot, "tools"),
		join(p.repoRoot, "tmp"),
		join(p.repoRoot, "source"),
		p.systemTemp,
		p.userHome,
		p.userDocs,
	}
	for _, prefix := range standard {
		if prefix != "" && strings.HasPrefix(norm, prefix) {
			return true
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, root := range p.approved {
		if strings.HasPrefix(norm, root) {
			return true
		}
	}
	return false
}

// ApproveRootInteractive appends root to the session-approved set. The
// set is append-only for the process lifetime (spec §5).
func (p *Policy) ApproveRootInteractive(root string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.approved = append(p.approved, normalize(root))
}

func normalize(p string) string {
	if p == "" {
		return ""
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if runtime.GOOS == "windows" {
		clean = strings.ToLower(clean)
	}
	return clean
}

func join(base, elem string) string {
	if base == "" {
		return ""
	}
	return normalize(base + "/" + elem)
}

func filepathAbs(p string) (string, error) {
	return filepath.Abs(p)
}
