package main

import (
	"log/slog"
	"os"

	"github.com/attilauslu/oligocraft/cmd"
	"github.com/lmittmann/tint"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, nil)))
	cmd.Execute()
}
