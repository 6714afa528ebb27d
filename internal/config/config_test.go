// Package config tests configuration loading.
package config

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points HOME and the config dirs at empty temp dirs, clears
// TODOMAN_* variables, and changes into a fresh working directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TODOMAN_FILE", "TODOMAN_SCHEMA", "TODOMAN_LOG_DIR", "TODOMAN_LOG_LEVEL",
		"TODOMAN_LOG_FORMAT", "TODOMAN_LOG_TIMESTAMPS", "TODOMAN_LOG_CALLER", "TODOMAN_FULLSCREEN",
	} {
		t.Setenv(name, "")
	}
	work := t.TempDir()
	t.Chdir(work)
	return home
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("todoman", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	return fs
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TaskFile != DefaultTaskFile {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, DefaultTaskFile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
	}
	if !cfg.Fullscreen {
		t.Error("Fullscreen: got false, want true")
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %q, want empty", cfg.SchemaFile)
	}
}

func TestLoadDefaultsResolvePaths(t *testing.T) {
	home := isolate(t)
	wd, _ := os.Getwd()

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.TaskFile != filepath.Join(wd, "tasks.json") {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, filepath.Join(wd, "tasks.json"))
	}
	if cfg.LogDir != filepath.Join(home, ".todoman", "logs") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	for _, field := range configFields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if len(cws.Files) != 0 {
		t.Errorf("Files: got %v, want none", cws.Files)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TODOMAN_FILE", "custom.json")
	t.Setenv("TODOMAN_LOG_LEVEL", "debug")
	t.Setenv("TODOMAN_FULLSCREEN", "no")
	t.Setenv("TODOMAN_LOG_TIMESTAMPS", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.TaskFile != "custom.json" {
		t.Errorf("TaskFile: got %q, want custom.json", cfg.TaskFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if sources["task_file"] != SourceEnv || sources["fullscreen"] != SourceEnv {
		t.Errorf("sources: %v", sources)
	}
	if _, ok := sources["log_dir"]; ok {
		t.Error("log_dir should not be tracked as env")
	}
}

func TestLoadProjectConfigFile(t *testing.T) {
	isolate(t)
	content := `task_file = "project.json"
log_format = "json"
fullscreen = false
`
	if err := os.WriteFile("todoman.toml", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if filepath.Base(cws.Config.TaskFile) != "project.json" {
		t.Errorf("TaskFile: got %q", cws.Config.TaskFile)
	}
	if cws.Config.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cws.Config.LogFormat)
	}
	if cws.Config.Fullscreen {
		t.Error("Fullscreen should be false from file")
	}
	if cws.Sources["fullscreen"] != SourceProjFile {
		t.Errorf("fullscreen source: got %q", cws.Sources["fullscreen"])
	}
	if cws.Sources["log_level"] != SourceDefault {
		t.Errorf("log_level source: got %q", cws.Sources["log_level"])
	}
	if len(cws.Files) != 1 || cws.Files[0] != "todoman.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestUserFileOverriddenByProjectFile(t *testing.T) {
	home := isolate(t)
	userDir := filepath.Join(home, ".todoman")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "todoman.toml"), []byte("log_level = \"warn\"\ntask_file = \"user.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(".todoman.toml", []byte("task_file = \"proj.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cws.Config.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cws.Config.LogLevel)
	}
	if filepath.Base(cws.Config.TaskFile) != "proj.json" {
		t.Errorf("TaskFile: got %q, want proj.json", cws.Config.TaskFile)
	}
	if cws.Sources["log_level"] != SourceUserFile || cws.Sources["task_file"] != SourceProjFile {
		t.Errorf("sources: %v", cws.Sources)
	}
	if len(cws.Files) != 2 {
		t.Errorf("Files: got %v, want 2 entries", cws.Files)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("todoman.toml", []byte("todo_file = \"x.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(newFlagSet(), nil)
	if err == nil || !strings.Contains(err.Error(), "todo_file") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestFlagsOverrideEverything(t *testing.T) {
	isolate(t)
	t.Setenv("TODOMAN_FILE", "env.json")
	if err := os.WriteFile("todoman.toml", []byte("task_file = \"file.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := newFlagSet()
	cws, err := LoadWithSources(fs, []string{"--file", "/tmp/flag.json", "--log-level", "ERROR", "--fullscreen=false", "ls", "--format", "json"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config
	if cfg.TaskFile != "/tmp/flag.json" && runtime.GOOS != "windows" {
		t.Errorf("TaskFile: got %q, want /tmp/flag.json", cfg.TaskFile)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want error (normalized)", cfg.LogLevel)
	}
	if cfg.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
	if cws.Sources["task_file"] != SourceFlag || cws.Sources["log_level"] != SourceFlag {
		t.Errorf("sources: %v", cws.Sources)
	}
	if got := fs.Args(); len(got) != 3 || got[0] != "ls" {
		t.Errorf("remaining args: got %v", got)
	}
}

func TestInvalidLogSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad level", []string{"--log-level", "verbose"}},
		{"bad format", []string{"--log-format", "xml"}},
		{"empty file", []string{"--file", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if _, err := Load(newFlagSet(), tt.args); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TODOMAN_TEST_DIR", "/srv/tasks")

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"~other/x", "~other/x"},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"", ""},
		{"$TODOMAN_TEST_DIR/list.json", "/srv/tasks/list.json"},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests, struct {
			input string
			want  string
		}{`~\test`, filepath.Join(home, "test")})
	} else {
		tests = append(tests, struct {
			input string
			want  string
		}{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPercentVars(t *testing.T) {
	t.Setenv("TODOMAN_PCT", "C:\\Users\\me")
	tests := []struct {
		input string
		want  string
	}{
		{`%TODOMAN_PCT%\tasks.json`, `C:\Users\me\tasks.json`},
		{`%TODOMAN_UNSET_VAR%\x`, `%TODOMAN_UNSET_VAR%\x`},
		{`100%`, `100%`},
		{`no vars`, `no vars`},
	}
	for _, tt := range tests {
		if got := expandPercentVars(tt.input); got != tt.want {
			t.Errorf("expandPercentVars(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{WorkDir: "/work"}
	if runtime.GOOS == "windows" {
		t.Skip("posix paths")
	}
	if got := cfg.ResolvePath("other.json"); got != "/work/other.json" {
		t.Errorf("relative: got %q", got)
	}
	if got := cfg.ResolvePath("/abs.json"); got != "/abs.json" {
		t.Errorf("absolute: got %q", got)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example config has unknown keys: %v", md.Undecoded())
	}
	if cfg.TaskFile != DefaultTaskFile || cfg.LogDir != DefaultLogDir || cfg.Fullscreen != DefaultFullscreen {
		t.Errorf("example config drifted from defaults: %+v", cfg)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.WorkDir = "/ignored"

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "/ignored") {
		t.Error("WorkDir should not be encoded")
	}
	decoded := &Config{}
	if _, err := toml.Decode(buf.String(), decoded); err != nil {
		t.Fatal(err)
	}
	cfg.WorkDir = ""
	if *decoded != *cfg {
		t.Errorf("round trip: got %+v, want %+v", decoded, cfg)
	}
}
