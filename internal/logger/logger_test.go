package logger

import "testing"

func TestNew_Environments(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		l, err := New(env)
		if err != nil || l == nil {
			t.Fatalf("New(%q): %v", env, err)
		}
		_ = l.Sync()
	}
	if Must("prod") == nil {
		t.Fatalf("Must returned nil")
	}
}
