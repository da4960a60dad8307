package main

import (
	"errors"
	"os"

	"cm/internal/cmerrors"
	"cm/internal/rcfile"
	"cm/internal/resolve"
)

func main() {
	rc, err := rcfile.FromEnv()
	if err != nil {
		logger.Error("loading configuration", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(255)
	}

	rootCmd.SetArgs(resolve.Cooked(os.Args, rc)[1:])
	if err := rootCmd.Execute(); err != nil {
		var ee *cmerrors.ExitError
		if errors.As(err, &ee) {
			// Mirror the failing child's exit code.
			if ee.ExitCode >= 0 {
				os.Exit(ee.ExitCode)
			}
			os.Exit(255)
		}
		logger.Error("command execution failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(255)
	}
}
