package main

import (
	"fmt"
	"io"

	"tigre/pkg/symbols"
)

func printUnlocked(w io.Writer, id symbols.ID) {
	def, ok := symbols.Lookup(id)
	if !ok {
		return
	}
	fmt.Fprintf(w, "%s %s unlocked: %s\n", def.Emoji, def.Name, def.Description)
}
