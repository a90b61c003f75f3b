package main

import (
	"os"

	"github.com/chillpill/chillpill/journalservice"
)

func main() {
	if err := journalservice.Run(); err != nil {
		os.Exit(1)
	}
}
