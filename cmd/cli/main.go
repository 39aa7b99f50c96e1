package main

import (
	"fmt"
	"os"

	"github.com/pcbuilderguide/pcbg/cmd/cli/auth"
	"github.com/pcbuilderguide/pcbg/cmd/cli/contact"
	"github.com/pcbuilderguide/pcbg/cmd/cli/messages"
	"github.com/pcbuilderguide/pcbg/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	contact.InitContact(rootCmd)
	messages.InitMessages(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
