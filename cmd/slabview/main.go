// SlabView renders the output of a sheet cutting optimizer as one annotated
// diagram per stock sheet, on screen or as SVG, PDF, DXF and part labels.
//
// Build:
//
//	go build -o slabview ./cmd/slabview
//
// Cross-compile:
//
//	GOOS=windows GOARCH=amd64 go build -o slabview.exe ./cmd/slabview
//	GOOS=darwin  GOARCH=amd64 go build -o slabview-darwin ./cmd/slabview
package main

import "github.com/piwi3910/SlabView/internal/cli"

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	cli.Main()
}
