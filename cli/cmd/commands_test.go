package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/clearsys/lang"
	"github.com/ardnew/clearsys/pkg"
)

func TestRun_Fixture(t *testing.T) {
	st, stdout, stderr := newState("")

	r := Run{Source: fixture}
	if err := r.Run(WithState(t.Context(), st)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if want := "x equals y\nResult: 10\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}

	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}

	if st.Status != 0 {
		t.Errorf("Status = %d, want 0", st.Status)
	}
}

func TestRun_Status(t *testing.T) {
	st, _, _ := newState("subr main() returns int { return 7; }")

	r := Run{Source: "-"}
	if err := r.Run(WithState(t.Context(), st)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if st.Status != 7 {
		t.Errorf("Status = %d, want 7", st.Status)
	}
}

func TestRun_StatusOutOfRange(t *testing.T) {
	tests := []struct {
		result string
		want   int
	}{
		{result: "0", want: 0},
		{result: "255", want: 255},
		{result: "256", want: 255},
		{result: "0 - 1", want: 255},
		{result: "1000000", want: 255},
	}

	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			st, _, _ := newState("subr main() returns int { return " + tt.result + "; }")

			r := Run{Source: "-"}
			if err := r.Run(WithState(t.Context(), st)); err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if st.Status != tt.want {
				t.Errorf("Status = %d, want %d", st.Status, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    error
		wantOut string
	}{
		{
			name: "lex",
			src:  "subr main() returns int { return 1 $ 2; }",
			want: lang.ErrLex,
		},
		{
			name: "parse",
			src:  "subr main() returns int { return 1 }",
			want: lang.ErrParse,
		},
		{
			name: "load",
			src:  "subr helper() returns int { return 1; }",
			want: lang.ErrUndefinedReference,
		},
		{
			name:    "runtime",
			src:     "subr main() returns int { print(\"a\"); return 1 / 0; }",
			want:    lang.ErrDivisionByZero,
			wantOut: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, stdout, _ := newState(tt.src)

			r := Run{Source: "-"}
			err := r.Run(WithState(t.Context(), st))

			var diag *Diagnostic
			if !errors.As(err, &diag) {
				t.Fatalf("Run() error = %v, want a *Diagnostic", err)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}

			if stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
		})
	}
}

func TestRun_MaxDepth(t *testing.T) {
	src := "subr f(int n) returns int { return f(n + 1); }\n" +
		"subr main() returns int { return f(0); }\n"

	st, _, _ := newState(src)
	st.MaxDepth = 50

	r := Run{Source: "-"}
	if err := r.Run(WithState(t.Context(), st)); !errors.Is(err, lang.ErrMaxDepthExceeded) {
		t.Errorf("Run() error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestRun_SourceNotFound(t *testing.T) {
	st, _, _ := newState("")

	r := Run{Source: filepath.Join(t.TempDir(), "none.cs")}

	err := r.Run(WithState(t.Context(), st))
	if !errors.Is(err, pkg.ErrSourceNotFound) {
		t.Errorf("Run() error = %v, want ErrSourceNotFound", err)
	}

	var diag *Diagnostic
	if errors.As(err, &diag) {
		t.Error("a missing file must not be reported as a language error")
	}
}

func TestCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		st, stdout, _ := newState("")

		c := Check{Source: fixture}
		if err := c.Run(WithState(t.Context(), st)); err != nil {
			t.Fatalf("Check() error: %v", err)
		}

		if stdout.Len() != 0 {
			t.Errorf("check must not run the program, got output %q", stdout.String())
		}
	})

	t.Run("main with params", func(t *testing.T) {
		st, _, _ := newState("subr main(int a) returns int { return a; }")

		c := Check{Source: "-"}
		if err := c.Run(WithState(t.Context(), st)); !errors.Is(err, lang.ErrArity) {
			t.Errorf("Check() error = %v, want ErrArity", err)
		}
	})

	t.Run("runtime errors are not detected", func(t *testing.T) {
		st, _, _ := newState("subr main() returns int { return 1 / 0; }")

		c := Check{Source: "-"}
		if err := c.Run(WithState(t.Context(), st)); err != nil {
			t.Errorf("Check() error = %v, want nil", err)
		}
	})
}

func TestTokens(t *testing.T) {
	const src = "subr main() returns int { return 0; }"

	t.Run("text", func(t *testing.T) {
		st, stdout, _ := newState(src)

		cmd := Tokens{Format: "text", Source: "-"}
		if err := cmd.Run(WithState(t.Context(), st)); err != nil {
			t.Fatalf("Tokens() error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		if len(lines) != 12 {
			t.Fatalf("got %d token lines, want 12:\n%s", len(lines), stdout.String())
		}

		if !strings.HasPrefix(lines[0], "1:1") || !strings.HasSuffix(lines[0], "subr") {
			t.Errorf("first line = %q", lines[0])
		}
	})

	t.Run("json", func(t *testing.T) {
		st, stdout, _ := newState(src)

		cmd := Tokens{Format: "json", Indent: 2, Source: "-"}
		if err := cmd.Run(WithState(t.Context(), st)); err != nil {
			t.Fatalf("Tokens() error: %v", err)
		}

		var toks []map[string]string
		if err := json.Unmarshal(stdout.Bytes(), &toks); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}

		if len(toks) != 12 || toks[1]["text"] != "main" {
			t.Errorf("unexpected tokens: %v", toks)
		}
	})

	t.Run("lex error", func(t *testing.T) {
		st, _, _ := newState(`"open`)

		cmd := Tokens{Format: "text", Source: "-"}
		if err := cmd.Run(WithState(t.Context(), st)); !errors.Is(err, lang.ErrLex) {
			t.Errorf("Tokens() error = %v, want ErrLex", err)
		}
	})
}

func TestAST(t *testing.T) {
	const src = "subr main() returns int {\nreturn 1+2*3;\n}"

	t.Run("source", func(t *testing.T) {
		st, stdout, _ := newState(src)

		cmd := AST{Format: "source", Indent: 2, Source: "-"}
		if err := cmd.Run(WithState(t.Context(), st)); err != nil {
			t.Fatalf("AST() error: %v", err)
		}

		want := "subr main() returns int {\n  return 1 + 2 * 3;\n}\n"
		if stdout.String() != want {
			t.Errorf("output = %q, want %q", stdout.String(), want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		st, stdout, _ := newState(src)

		cmd := AST{Format: "yaml", Indent: 2, Source: "-"}
		if err := cmd.Run(WithState(t.Context(), st)); err != nil {
			t.Fatalf("AST() error: %v", err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(stdout.Bytes(), &doc); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, stdout.String())
		}

		if _, ok := doc["funcs"]; !ok {
			t.Errorf("YAML output missing funcs: %s", stdout.String())
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		st, _, _ := newState(src)

		cmd := AST{Format: "xml", Source: "-"}
		if err := cmd.Run(WithState(t.Context(), st)); !errors.Is(err, pkg.ErrInvalidFormat) {
			t.Errorf("AST() error = %v, want ErrInvalidFormat", err)
		}
	})
}

// initApp is a minimal command tree for exercising Init.
type initApp struct {
	LogLevel   string   `default:"debug"`
	SearchPath []string `default:"a,b"`
	Quiet      bool
	Unset      string

	Init Init `cmd:""`
}

func parseInit(t *testing.T, path string, args ...string) (*initApp, *kong.Context) {
	t.Helper()

	var app initApp

	parser, err := kong.New(&app,
		kong.Vars{ConfigIdentifier: path},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return &app, ktx
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	app, ktx := parseInit(t, path)
	if err := app.Init.Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("config is not YAML: %v\n%s", err, data)
	}

	if doc["log-level"] != "debug" || doc["quiet"] != false {
		t.Errorf("unexpected config: %v", doc)
	}

	if _, ok := doc["unset"]; ok {
		t.Errorf("empty flag written to config: %v", doc)
	}

	if _, ok := doc["help"]; ok {
		t.Errorf("help flag written to config: %v", doc)
	}

	// A second run refuses to overwrite the file.
	app, ktx = parseInit(t, path)
	if err := app.Init.Run(WithContext(t.Context(), ktx)); !errors.Is(err, pkg.ErrConfigExists) {
		t.Errorf("Init() error = %v, want ErrConfigExists", err)
	}

	// Unless forced.
	app, ktx = parseInit(t, path, "--force", "--log-level=trace")
	if err := app.Init.Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatalf("Init(--force) error: %v", err)
	}

	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "log-level: trace") {
		t.Errorf("forced config not rewritten:\n%s", data)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"string", "x", "x"},
		{"empty slice", []string{}, nil},
		{"bool", true, true},
		{"int", 3, 3},
		{"other", struct{ A int }{1}, "{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.in); got != tt.want {
				t.Errorf("flagValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
