// Command shapefetch fetches JSON resources and checks them against a shape
// file before anything downstream reads them.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
