package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/open-legal-tools/legalpatterns/pkg/cleaner"
	"github.com/open-legal-tools/legalpatterns/pkg/courts"
	"github.com/open-legal-tools/legalpatterns/pkg/doctype"
	"github.com/open-legal-tools/legalpatterns/pkg/patterns"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "legalpat",
		Short: "Legal document pattern toolkit",
		Long: `Legalpat applies the shared legal-patterns library to text from
the command line: document-type classification, court-name normalization,
case-caption party splitting, paragraph/footnote extraction, legal-entity
detection, and OCR text cleanup.`,
		Version: version,
	}

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(courtCmd())
	rootCmd.AddCommand(partiesCmd())
	rootCmd.AddCommand(paragraphsCmd())
	rootCmd.AddCommand(entityCmd())
	rootCmd.AddCommand(footnotesCmd())
	rootCmd.AddCommand(cleanCmd())
	rootCmd.AddCommand(patternsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readInput resolves command input: --file wins, then positional args joined
// with spaces, then stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "Read input text from a file instead of args/stdin")
	cmd.Flags().Bool("json", false, "Emit JSON output")
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify document text into a document-type category",
		Example: `  legalpat classify "This motion for summary judgment is granted"
  legalpat classify --file brief.txt --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			all, _ := cmd.Flags().GetBool("all")
			asJSON, _ := cmd.Flags().GetBool("json")

			if all {
				matches := doctype.ClassifyAll(text)
				if asJSON {
					return printJSON(matches)
				}
				if len(matches) == 0 {
					fmt.Println(doctype.Unknown)
					return nil
				}
				for _, m := range matches {
					fmt.Println(m.Explain())
				}
				return nil
			}

			category := doctype.Classify(text)
			if asJSON {
				return printJSON(map[string]doctype.Category{"category": category})
			}
			fmt.Println(category)
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("all", false, "Show every matching category with scores")
	return cmd
}

func courtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "court [abbreviation]",
		Short: "Expand a court abbreviation to its full name",
		Example: `  legalpat court "9th Cir."
  legalpat court --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _ := cmd.Flags().GetBool("list")
			if list {
				for _, abbr := range courts.Abbreviations() {
					full, _ := courts.FullName(abbr)
					fmt.Printf("%-12s %s\n", abbr, full)
				}
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("court abbreviation required (or --list)")
			}
			fmt.Println(courts.Normalize(strings.Join(args, " ")))
			return nil
		},
	}
	cmd.Flags().Bool("list", false, "List all known abbreviations")
	return cmd
}

func partiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parties [case title]",
		Short:   "Split a case caption into plaintiff and defendant",
		Example: `  legalpat parties "Smith v. Jones"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			plaintiff, defendant := patterns.ExtractPartyNames(text)

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return printJSON(map[string]string{
					"plaintiff": plaintiff,
					"defendant": defendant,
				})
			}
			fmt.Printf("Plaintiff: %s\n", plaintiff)
			fmt.Printf("Defendant: %s\n", defendant)
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func paragraphsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paragraphs [text]",
		Short: "Extract bracketed paragraph numbers in document order",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			numbers := patterns.ExtractParagraphNumbers(text)

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return printJSON(numbers)
			}
			for _, n := range numbers {
				fmt.Println(n)
			}
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func entityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity [text]",
		Short: "Check whether text mentions a corporate legal entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			found := patterns.IsLegalEntity(text)

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return printJSON(map[string]bool{"entity": found})
			}
			fmt.Println(found)
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func footnotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "footnotes [text]",
		Short: "Extract footnote body lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			footnotes := patterns.ExtractFootnotes(text)

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return printJSON(footnotes)
			}
			for _, fn := range footnotes {
				fmt.Printf("^%d %s\n", fn.Number, fn.Text)
			}
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func cleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [text]",
		Short: "Clean OCR artifacts and normalize whitespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			fmt.Println(cleaner.Clean(text))
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Work with caller-defined pattern sets",
	}
	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsMatchCmd())
	return cmd
}

func patternsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pattern sets loaded from a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			registry, err := patterns.NewRegistryWithDirectory(dir)
			if err != nil {
				return err
			}

			sets := registry.List()
			if len(sets) == 0 {
				fmt.Println("No pattern sets loaded.")
				return nil
			}
			for _, set := range sets {
				fmt.Printf("%s (%s, version %s): %d patterns\n",
					set.Name, set.SetID, set.Version, len(set.Patterns))
				for _, p := range set.Patterns {
					fmt.Printf("  %-20s %s\n", p.Name, p.Pattern)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "patterns", "Directory of pattern-set YAML files")
	return cmd
}

func patternsMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "match [text]",
		Short:   "Run a named pattern from a loaded set against text",
		Example: `  legalpat patterns match --dir ./sets --set docket --pattern case_no "No. 21-cv-01234"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			setID, _ := cmd.Flags().GetString("set")
			name, _ := cmd.Flags().GetString("pattern")
			if setID == "" || name == "" {
				return fmt.Errorf("--set and --pattern are required")
			}

			registry, err := patterns.NewRegistryWithDirectory(dir)
			if err != nil {
				return err
			}

			set, ok := registry.Get(setID)
			if !ok {
				return fmt.Errorf("pattern set %q not found in %s", setID, dir)
			}
			if set.Lookup(name) == nil {
				return fmt.Errorf("pattern %q not found in set %q", name, setID)
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			matches := set.FindAll(name, text)

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return printJSON(matches)
			}
			for _, m := range matches {
				fmt.Println(strings.Join(m, "\t"))
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("dir", "patterns", "Directory of pattern-set YAML files")
	cmd.Flags().String("set", "", "Pattern set ID")
	cmd.Flags().String("pattern", "", "Pattern name within the set")
	return cmd
}
