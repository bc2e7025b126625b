package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wesleyorama2/rtbench/internal/harness"
	"github.com/wesleyorama2/rtbench/internal/harness/environment"
)

// execute runs a fresh command tree with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// grantPreconditions lets runs proceed without real-time privileges.
func grantPreconditions(t *testing.T) {
	t.Helper()
	prev := harnessOptions
	harnessOptions = []harness.Option{
		harness.WithPreconditions(func() environment.Result {
			return environment.Result{Priority: 99}
		}),
	}
	t.Cleanup(func() { harnessOptions = prev })
}

func TestRoot_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"rtbench", "run", "report"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q", out)
	}
}

func TestRoot_UnknownCommand(t *testing.T) {
	if _, err := execute(t, "bogus"); err == nil {
		t.Error("unknown command should fail")
	}
}
