// Command flyer-export renders a deal sheet PDF offline from a JSON
// property list, for ops use when the API is unavailable or a one-off
// export is needed.
//
// Usage:
//
//	flyer-export -input props.json -output ./out [-no-images] [-origin https://example.com]
//
// The input file holds a JSON array in the same shape the broadcast API
// accepts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/sharelink"
	"wholesale_portal_backend/internal/broadcast/transport"
	"wholesale_portal_backend/internal/flyer"
	"wholesale_portal_backend/internal/imaging"
	"wholesale_portal_backend/platform/logger"
)

func main() {
	var (
		inputPath    = flag.String("input", "", "path to a JSON array of properties (required)")
		outputDir    = flag.String("output", ".", "directory to write the PDF into")
		noImages     = flag.Bool("no-images", false, "skip thumbnail fetching; render text-only rows")
		siteOrigin   = flag.String("origin", "https://lonestardealflow.com", "public site origin for the QR link")
		brandingFile = flag.String("branding", "", "optional branding YAML override file")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New("development")

	brand, err := branding.Load(*brandingFile)
	if err != nil {
		fatal("load branding: %v", err)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		fatal("read input: %v", err)
	}

	var payloads []transport.PropertyPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		fatal("parse input: %v", err)
	}
	if len(payloads) == 0 {
		fatal("input contains no properties")
	}

	links := sharelink.New(*siteOrigin)
	fetcher := imaging.NewFetcher(0)
	gen := flyer.NewGenerator(brand, fetcher, links, log)

	pdf, err := gen.Generate(context.Background(), transport.ToDomainList(payloads), !*noImages)
	if err != nil {
		fatal("render flyer: %v", err)
	}

	outPath := filepath.Join(*outputDir, gen.Filename(len(payloads)))
	if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
		fatal("write output: %v", err)
	}

	fmt.Printf("wrote %s (%d properties, %d bytes)\n", outPath, len(payloads), len(pdf))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "flyer-export: "+format+"\n", args...)
	os.Exit(1)
}
