package main

import (
	"github.com/dgwhited/github-actions-tag-2-sha/internal/cmd"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
