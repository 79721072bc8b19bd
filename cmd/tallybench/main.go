package main

import (
	"github.com/tallyhq/tallybench/cmd/tallybench/cmd"
	"github.com/tallyhq/tallybench/internal/common"
)

func main() {
	common.ConfigureLogging()
	cmd.Execute()
}
