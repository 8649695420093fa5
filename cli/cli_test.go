package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/clearsys/cli/cmd"
	"github.com/ardnew/clearsys/pkg"
)

// execute runs the CLI with args and returns its outputs and exit status.
func execute(t *testing.T, stdin string, args ...string) (string, string, int, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	st := &cmd.State{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}

	err := run(t.Context(), st, func(code int) {
		t.Fatalf("unexpected exit(%d)", code)
	}, args)

	return stdout.String(), stderr.String(), st.Status, err
}

func TestRun_DefaultCommand(t *testing.T) {
	stdout, stderr, status, err := execute(t, "", "../lang/testdata/test.cs")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if want := "x equals y\nResult: 10\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	if status != 0 {
		t.Errorf("status = %d, want 0 (stderr: %s)", status, stderr)
	}
}

func TestRun_ExitStatus(t *testing.T) {
	_, _, status, err := execute(t, "subr main() returns int { return 42; }", "run", "-")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if status != 42 {
		t.Errorf("status = %d, want 42", status)
	}
}

func TestRun_Diagnostic(t *testing.T) {
	src := "subr main() returns int {\n    print(\"before\");\n    return 1 / 0;\n}\n"

	stdout, stderr, status, err := execute(t, src, "-")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}

	if stdout != "before" {
		t.Errorf("stdout = %q, want output printed before the error", stdout)
	}

	for _, want := range []string{"error: division by zero", "--> -:3:", "3 |     return 1 / 0;", "^"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestRun_SourceNotFound(t *testing.T) {
	_, _, _, err := execute(t, "", filepath.Join(t.TempDir(), "absent.cs"))
	if !errors.Is(err, pkg.ErrSourceNotFound) {
		t.Errorf("run() error = %v, want ErrSourceNotFound", err)
	}
}

func TestRun_SearchPath(t *testing.T) {
	flagDir, envDir := t.TempDir(), t.TempDir()

	write := func(dir, name, body string) {
		t.Helper()

		src := "subr main() returns int { " + body + " }"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	write(flagDir, "flag.cs", "return 1;")
	write(envDir, "env.cs", "return 2;")
	write(envDir, "flag.cs", "return 3;")

	t.Setenv(searchPathVar, envDir)

	tests := []struct {
		file string
		want int
	}{
		{file: "flag", want: 1},
		{file: "env.cs", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, _, status, err := execute(t, "", "--search-path", flagDir, tt.file)
			if err != nil {
				t.Fatalf("run() error: %v", err)
			}

			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestRun_MaxDepth(t *testing.T) {
	src := "subr f(int n) returns int { return f(n + 1); }\n" +
		"subr main() returns int { return f(0); }\n"

	_, stderr, status, err := execute(t, src, "--max-depth", "20", "-")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if status != 1 || !strings.Contains(stderr, "maximum call depth exceeded") {
		t.Errorf("status = %d, stderr = %q", status, stderr)
	}
}

func TestRun_Subcommands(t *testing.T) {
	const src = "subr main() returns int { return 0; }"

	stdout, _, _, err := execute(t, src, "ast", "--format", "source", "-")
	if err != nil {
		t.Fatalf("ast error: %v", err)
	}

	if !strings.HasPrefix(stdout, "subr main() returns int {") {
		t.Errorf("ast output = %q", stdout)
	}

	stdout, _, _, err = execute(t, src, "tokens", "-")
	if err != nil {
		t.Fatalf("tokens error: %v", err)
	}

	if !strings.Contains(stdout, "main") {
		t.Errorf("tokens output = %q", stdout)
	}

	stdout, _, status, err := execute(t, src, "check", "-")
	if err != nil || status != 0 || stdout != "" {
		t.Errorf("check: err=%v status=%d stdout=%q", err, status, stdout)
	}
}

func TestResolve(t *testing.T) {
	doc := `
log-level: debug
max_depth: 500
log-pretty: false
search-path:
  - /a
  - /b
`

	res, err := resolve(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{flag: "log-level", want: "debug"},
		{flag: "max-depth", want: "500"},
		{flag: "log-pretty", want: false},
		{flag: "missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	got, _ := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "search-path"}})
	if list, ok := got.([]any); !ok || len(list) != 2 || list[0] != "/a" {
		t.Errorf("Resolve(search-path) = %#v", got)
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, doc := range []string{"", "- not\n- a mapping\n", "key: [unclosed"} {
		res, err := resolve(strings.NewReader(doc))
		if err != nil {
			t.Errorf("resolve(%q) error: %v", doc, err)

			continue
		}

		if got, _ := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "key"}}); got != nil {
			t.Errorf("resolve(%q) yielded %v", doc, got)
		}
	}
}

func TestSearchPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	got := searchPath("c"+sep+sep+"a", "a", "b")
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("searchPath() = %v, want %v", got, want)
	}

	got = searchPath("", "first", "second", "third")
	if want := []string{"first", "second", "third"}; !slices.Equal(got, want) {
		t.Errorf("searchPath() = %v, want %v", got, want)
	}

	got = searchPath("env1"+sep+"env2", "flag")
	if want := []string{"flag", "env1", "env2"}; !slices.Equal(got, want) {
		t.Errorf("searchPath() = %v, want %v", got, want)
	}

	if got := searchPath(""); len(got) != 0 {
		t.Errorf("searchPath(\"\") = %v, want empty", got)
	}
}

func TestLogConfig_Scan(t *testing.T) {
	var f logConfig

	t.Cleanup(func() { (&logConfig{Level: "info", Format: "text", TimeLayout: "none"}).start(t.Context()) })

	f.scan([]string{
		"--log-level", "debug",
		"--log-format=json",
		"--no-log-pretty",
		"--log-caller=true",
		"--log-time-layout", "kitchen",
		"--",
		"--log-level=error",
	})

	if f.Level != "debug" || f.Format != "json" || f.Pretty || !f.Caller || f.TimeLayout != "kitchen" {
		t.Errorf("scan() = %+v", f)
	}
}
