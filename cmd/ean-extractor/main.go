package main

import (
	"fmt"
	"os"

	"ean-extractor/internal/cli"
)

// @title EAN Extractor API
// @version 1.0
// @description Extracts EAN code and quantity pairs from document images and PDFs with a hosted multimodal model

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
