package main

import (
	"bytes"
	"strings"
	"testing"
)

type cliResult struct {
	exit   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args []string, stdin string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	exit := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{exit: exit, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRunEchoesCompactJSON(t *testing.T) {
	res := runCLI(t, nil, ` { "a" : 1 , "b" : [ true , null ] } `)
	if res.exit != exitOK {
		t.Fatalf("exit %d, stderr %q", res.exit, res.stderr)
	}
	if res.stdout != "{\"a\":1,\"b\":[true,null]}\n" {
		t.Fatalf("stdout %q", res.stdout)
	}
}

func TestRunQuiet(t *testing.T) {
	res := runCLI(t, []string{"-q"}, `[1,2,3]`)
	if res.exit != exitOK || res.stdout != "" {
		t.Fatalf("exit %d, stdout %q", res.exit, res.stdout)
	}

	res = runCLI(t, []string{"--quiet"}, `[1,2,3]`)
	if res.exit != exitOK || res.stdout != "" {
		t.Fatalf("exit %d, stdout %q", res.exit, res.stdout)
	}
}

func TestRunPretty(t *testing.T) {
	res := runCLI(t, []string{"-p"}, `{"a":[1]}`)
	if res.exit != exitOK {
		t.Fatalf("exit %d, stderr %q", res.exit, res.stderr)
	}
	want := "{\n    \"a\": [\n        1\n    ]\n}\n"
	if res.stdout != want {
		t.Fatalf("stdout %q, want %q", res.stdout, want)
	}
}

func TestRunPrettyIndentWidth(t *testing.T) {
	res := runCLI(t, []string{"-p", "-i", "2"}, `[1]`)
	if res.stdout != "[\n  1\n]\n" {
		t.Fatalf("stdout %q", res.stdout)
	}

	res = runCLI(t, []string{"-p", "--indent=2"}, `[1]`)
	if res.stdout != "[\n  1\n]\n" {
		t.Fatalf("stdout %q", res.stdout)
	}
}

func TestRunPrettyTabs(t *testing.T) {
	res := runCLI(t, []string{"-p", "-t"}, `[1]`)
	if res.stdout != "[\n\t1\n]\n" {
		t.Fatalf("stdout %q", res.stdout)
	}
}

func TestRunMalformedInput(t *testing.T) {
	res := runCLI(t, nil, `[1,2,]`)
	if res.exit != exitMalformed {
		t.Fatalf("exit %d, want %d", res.exit, exitMalformed)
	}
	if !strings.Contains(res.stderr, "stdin:1:6: error: expected value") {
		t.Fatalf("stderr %q", res.stderr)
	}
}

func TestRunErrorLineAndColumn(t *testing.T) {
	res := runCLI(t, nil, "{\n  \"a\": 01\n}")
	if res.exit != exitMalformed {
		t.Fatalf("exit %d", res.exit)
	}
	if !strings.Contains(res.stderr, "stdin:2:8: error: illegal octal number") {
		t.Fatalf("stderr %q", res.stderr)
	}
}

func TestRunBadFlag(t *testing.T) {
	res := runCLI(t, []string{"--nope"}, `[]`)
	if res.exit != exitUsage {
		t.Fatalf("exit %d, want %d", res.exit, exitUsage)
	}
}

func TestRunPositionalArgsRejected(t *testing.T) {
	res := runCLI(t, []string{"file.json"}, `[]`)
	if res.exit != exitUsage {
		t.Fatalf("exit %d, want %d", res.exit, exitUsage)
	}
}

func TestRunIndentValidation(t *testing.T) {
	for _, args := range [][]string{
		{"-p", "-i", "0"},
		{"-p", "-i", "-3"},
		{"-p", "-i", "70000"},
	} {
		res := runCLI(t, args, `[]`)
		if res.exit != exitUsage {
			t.Fatalf("args %v: exit %d, want %d", args, res.exit, exitUsage)
		}
	}
	res := runCLI(t, []string{"-p", "-i", "x"}, `[]`)
	if res.exit != exitUsage {
		t.Fatalf("exit %d, want %d", res.exit, exitUsage)
	}
}

func TestRunVersion(t *testing.T) {
	res := runCLI(t, []string{"--version"}, "")
	if res.exit != exitOK {
		t.Fatalf("exit %d", res.exit)
	}
	if strings.TrimSpace(res.stdout) != version {
		t.Fatalf("stdout %q", res.stdout)
	}
}

func TestRunHelp(t *testing.T) {
	res := runCLI(t, []string{"--help"}, "")
	if res.exit != exitOK {
		t.Fatalf("exit %d", res.exit)
	}
	for _, want := range []string{"reads JSON from stdin", "Exit status", "Maximum structure depth"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("help output missing %q: %q", want, res.stdout)
		}
	}
}

func TestBuildConfig(t *testing.T) {
	origStandard, origExt := standard, extensions
	defer func() { standard, extensions = origStandard, origExt }()

	standard, extensions = "json5", ""
	if _, _, err := buildConfig(); err != nil {
		t.Fatal(err)
	}

	standard, extensions = "rfc8259", "comments,trailing-commas"
	if _, ext, err := buildConfig(); err != nil || ext == 0 {
		t.Fatalf("ext %v err %v", ext, err)
	}

	standard, extensions = "rfc4627", "comments"
	if _, _, err := buildConfig(); err == nil {
		t.Fatal("RFC 4627 with extensions must be rejected")
	}

	standard, extensions = "bogus", ""
	if _, _, err := buildConfig(); err == nil {
		t.Fatal("unknown standard must be rejected")
	}
}

func TestRunJSON5Build(t *testing.T) {
	origStandard := standard
	defer func() { standard = origStandard }()
	standard = "json5"

	res := runCLI(t, nil, `{a:1,/*x*/}`)
	if res.exit != exitOK {
		t.Fatalf("exit %d, stderr %q", res.exit, res.stderr)
	}
	if res.stdout != "{a:1}\n" {
		t.Fatalf("stdout %q", res.stdout)
	}
}
