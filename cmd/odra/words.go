package main

import (
	"fmt"
	"sort"

	"github.com/gookit/color"
	"github.com/odra-lang/odra/words"
	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List the builtin words and their stack effects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ws := words.Registry().Words()
		sort.Slice(ws, func(i, j int) bool { return ws[i].Name() < ws[j].Name() })
		for _, w := range ws {
			kind := "ordinary"
			if w.IsMacro() {
				kind = color.Yellow.Sprint("immediate")
			}
			fmt.Printf("%s %-40s %s\n", color.Bold.Sprintf("%-12s", w.Name()), w.StackEffect(), kind)
		}
	},
}
