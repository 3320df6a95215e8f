package gtcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SupportedExtensions maps file extensions to xgettext language names.
// xgettext auto-detects from extensions; the explicit map tells us
// which files are worth collecting at all.
var SupportedExtensions = map[string]string{
	".py":   "Python",
	".c":    "C",
	".h":    "C",
	".cc":   "C++",
	".cpp":  "C++",
	".cxx":  "C++",
	".hh":   "C++",
	".hpp":  "C++",
	".sh":   "Shell",
	".bash": "Shell",
	".js":   "JavaScript",
	".jsx":  "JavaScript",
	".ts":   "JavaScript",
	".tsx":  "JavaScript",
	".pl":   "Perl",
	".pm":   "Perl",
	".php":  "PHP",
	".java": "Java",
	".cs":   "C#",
	".rb":   "Ruby",
	".lua":  "Lua",
	".vala": "Vala",
}

// skipDirs are directory names never worth descending into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"__pycache__":  true,
	".tox":         true,
	".venv":        true,
	"venv":         true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".eggs":        true,
}

// FindSources recursively collects source files with known extensions
// under the input paths, minus anything matching an exclude pattern.
// Exclude patterns match path.Match style against each path element.
func FindSources(inputPaths, excludes []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, dir := range inputPaths {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				if skipDirs[info.Name()] || matchesAny(info.Name(), excludes) {
					return filepath.SkipDir
				}
				return nil
			}
			if matchesAny(info.Name(), excludes) {
				return nil
			}
			if _, ok := SupportedExtensions[filepath.Ext(path)]; ok && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
