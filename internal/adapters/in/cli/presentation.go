package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/virtdock/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/virtdock/pkg/bytesize"
)

var cliWriteLine = func(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

func cliRenderWarning(msg string) string {
	return styles.RenderWarning(msg)
}

// renderSummary renders one table row per converted input.
func renderSummary(results []conversion) string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		def := res.def
		command := strings.TrimSpace(def.OS.Init + " " + strings.Join(def.OS.InitArgs, " "))
		if command == "" {
			command = styles.Theme.Muted.Render("(none)")
		}
		rows = append(rows, []string{
			res.ref,
			command,
			strconv.FormatUint(uint64(def.Vcpus), 10),
			bytesize.FormatKiB(def.MemoryTotalKiB),
			strconv.Itoa(len(def.OS.InitEnv)),
			strconv.Itoa(len(def.Warnings)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Theme.TableBorder).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Theme.TableHeader
			}
			return styles.Theme.TableCell
		}).
		Headers("SOURCE", "INIT", "VCPUS", "MEMORY", "ENV", "WARNINGS").
		Rows(rows...)

	return styles.Theme.Title.Render(fmt.Sprintf("%d definition(s)", len(results))) + "\n" + t.Render()
}
