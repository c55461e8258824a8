package main

import (
	"embed"
	"os"
)

//go:embed web/*
var webFS embed.FS

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
