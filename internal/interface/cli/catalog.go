package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/catalog"
)

// catalogSections maps a section name to its printer
var catalogSections = map[string]func(io.Writer, *content.Catalog){
	"goals":    printGoals,
	"emotions": printEmotions,
	"plans":    printPlans,
	"patterns": printPatterns,
	"scripts":  printScripts,
	"features": printFeatures,
	"prompts":  printPrompts,
}

func catalogSectionNames() []string {
	names := make([]string, 0, len(catalogSections))
	for name := range catalogSections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "catalog [section]",
		Short:     "Print the built-in content catalog",
		Long:      "Print the built-in content catalog. Sections: " + strings.Join(catalogSectionNames(), ", "),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: catalogSectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("failed to load content catalog: %w", err)
			}
			return runCatalog(cmd.OutOrStdout(), cat, args)
		},
	}
}

func runCatalog(w io.Writer, cat *content.Catalog, args []string) error {
	if len(args) == 1 {
		show, ok := catalogSections[args[0]]
		if !ok {
			return fmt.Errorf("unknown section %q (want one of %s)", args[0], strings.Join(catalogSectionNames(), ", "))
		}
		show(w, cat)
		return nil
	}
	for _, name := range catalogSectionNames() {
		catalogSections[name](w, cat)
		fmt.Fprintln(w)
	}
	return nil
}

func heading(w io.Writer, title string, n int) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgHiMagenta, color.Bold).Sprint(title), color.New(color.Faint).Sprintf("(%d)", n))
}

func item(w io.Writer, id, title, detail string) {
	fmt.Fprintf(w, "  %s %s", color.New(color.FgCyan).Sprintf("%-22s", id), title)
	if detail != "" {
		fmt.Fprintf(w, " %s", color.New(color.Faint).Sprint(detail))
	}
	fmt.Fprintln(w)
}

func printGoals(w io.Writer, c *content.Catalog) {
	heading(w, "Goals", len(c.Goals))
	for _, g := range c.Goals {
		item(w, g.ID, g.Title, g.Description)
	}
}

func printEmotions(w io.Writer, c *content.Catalog) {
	heading(w, "Emotions", len(c.Emotions))
	for _, e := range c.Emotions {
		item(w, e.ID, e.Title, e.Description)
	}
}

func printPlans(w io.Writer, c *content.Catalog) {
	heading(w, "Plans", len(c.Plans))
	for _, p := range c.Plans {
		item(w, p.ID, p.Title, color.New(color.FgGreen).Sprint(p.Price))
	}
}

func printPatterns(w io.Writer, c *content.Catalog) {
	heading(w, "Pattern categories", len(c.PatternCategories))
	for _, pc := range c.PatternCategories {
		item(w, pc.ID, pc.Title, fmt.Sprintf("%d prompts", len(pc.Prompts)))
	}
}

func printScripts(w io.Writer, c *content.Catalog) {
	heading(w, "Scripts", len(c.Scripts))
	for _, s := range c.Scripts {
		item(w, s.ID, s.Title, "["+s.Category+"]")
	}
}

func printFeatures(w io.Writer, c *content.Catalog) {
	heading(w, "Features", len(c.Features))
	for _, f := range c.Features {
		item(w, f.ID, f.Title, f.Path)
	}
}

func printPrompts(w io.Writer, c *content.Catalog) {
	heading(w, "Reflection prompts", len(c.ReflectionPrompts))
	for i, p := range c.ReflectionPrompts {
		item(w, fmt.Sprintf("#%d", i+1), p, "")
	}
}
