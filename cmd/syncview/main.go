// Command syncview renders documents into headless scroll containers and
// keeps their scroll positions in sync.
package main

import "os"

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
