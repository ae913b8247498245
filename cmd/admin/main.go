package main

import (
	"os"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.OpenMongoStore).Execute(); err != nil {
		os.Exit(1)
	}
}
