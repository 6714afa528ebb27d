package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolvePath expands p and, if it is relative, joins it to the config's
// working directory.
func (c *Config) ResolvePath(p string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.WorkDir, p)
}

// expandPath expands a leading ~ and environment variables in p.
// Windows additionally accepts ~\ and %VAR%.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandPercentVars(expanded)
	}

	rest, ok := strings.CutPrefix(expanded, "~")
	if !ok {
		return expanded
	}
	sepOK := rest == "" || strings.HasPrefix(rest, "/") ||
		(runtime.GOOS == "windows" && strings.HasPrefix(rest, `\`))
	if !sepOK {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest[1:])
}

// expandPercentVars replaces %NAME% with the value of NAME. Unknown names
// and a lone % are left as written.
func expandPercentVars(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			b.WriteString(p)
			return b.String()
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			b.WriteString(p)
			return b.String()
		}
		name := p[start+1 : start+1+end]
		b.WriteString(p[:start])
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
			p = p[start+end+2:]
			continue
		}
		// keep the opening %, rescan from the closing one
		b.WriteString("%" + name)
		p = p[start+1+end:]
	}
}
