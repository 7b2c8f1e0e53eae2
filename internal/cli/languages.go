package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their file extensions",
	Run: func(cmd *cobra.Command, args []string) {
		registry := grammars.DefaultRegistry()
		for _, name := range registry.Languages() {
			spec, err := registry.Resolve(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-12s %s\n", name, strings.Join(spec.Extensions, " "))
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
