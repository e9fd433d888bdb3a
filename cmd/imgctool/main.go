package main

import (
	"os"
	"strings"

	"imgctool/internal/cli"
)

// rewriteImageArgs lets `imgctool show` tag a file named "show" when one
// exists. Cobra treats the first non-flag token as a subcommand, so a
// colliding file name gets "--" inserted in front of it.
func rewriteImageArgs(argv []string, commands map[string]bool, exists func(string) bool) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--file":      true,
		"--viewer":    true,
		"--format":    true,
		"--log-file":  true,
		"--log-level": true,
	}

	for i := 1; i < len(argv); i++ {
		a := argv[i]
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if commands[a] && exists(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func main() {
	cmd := cli.NewRootCmd()

	commands := map[string]bool{"help": true, "completion": true}
	for _, c := range cmd.Commands() {
		commands[c.Name()] = true
	}
	cmd.SetArgs(rewriteImageArgs(os.Args, commands, fileExists)[1:])

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
