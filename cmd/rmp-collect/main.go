// Command rmp-collect queries the RateMyProfessors GraphQL API and writes
// department listings for downstream review collection.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
