package main

import (
	"strings"
	"testing"
)

// TestNewServeCmd tests the serve command flags.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()
	for name, def := range map[string]string{
		"listen":          "127.0.0.1:8899",
		"api-key":         "",
		"allow-no-auth":   "true",
		"request-timeout": "30s",
	} {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("expected %s flag", name)
		}
		if flag.DefValue != def {
			t.Errorf("%s: expected default %q, got %q", name, def, flag.DefValue)
		}
	}
}

// TestRunServeCmd tests that listen errors are reported.
func TestRunServeCmd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	res := env.run(t, "", "serve", "--listen", "127.0.0.1:99999")
	if res.err == nil || !strings.Contains(res.err.Error(), "failed to listen") {
		t.Errorf("expected listen error, got %v", res.err)
	}
}
