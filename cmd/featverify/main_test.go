package main

import (
	"testing"

	"github.com/harrison/featverify/internal/cmd"
)

func TestVersionDefault(t *testing.T) {
	if cmd.Version == "" {
		t.Error("cmd.Version should not be empty")
	}
}
