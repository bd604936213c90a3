// Command successcond runs the success condition analyzer as a standalone
// vet-style checker:
//
//	successcond ./...
//	go vet -vettool=$(which successcond) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/mjp2ff/aid-sub000/internal/frontend/golang"
)

func main() {
	singlechecker.Main(golang.Analyzer)
}
