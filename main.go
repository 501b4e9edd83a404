package main

import (
	"embed"

	"github.com/gradeworks/repograde/cmd"
)

//go:embed all:prompts
var embeddedFS embed.FS

func main() {
	cmd.Execute(embeddedFS)
}
