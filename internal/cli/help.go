package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/ipmt/internal/ui/pretty"
)

// helpStyles contains Lipgloss styles for command help formatting.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	example lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{
			command: plain,
			heading: plain,
			name:    plain,
			flag:    plain,
			example: plain,
			dim:     plain,
		}
	}
	return helpStyles{
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		example: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage for Cobra commands.
type HelpFormatter struct {
	styles helpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{
		styles: newHelpStyles(pretty.IsColorEnabled(colorMode, writer)),
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}`

// funcs returns the template functions used by the help templates.
func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command": h.styles.command.Render,
		"heading": h.styles.heading.Render,
		"name":    h.styles.name.Render,
		"example": h.styles.example.Render,
		"flags":   h.flagUsages,
		"rpad":    rpad,
		"trim":    trimTrailingWhitespaces,
	}
}

// flagRow is one flag in a flag listing.
type flagRow struct {
	names []string
	value string
	usage string
}

// longOnlyIndent aligns a flag without shorthand under the long names of
// flags that have one ("-x, ").
const longOnlyIndent = "    "

// width returns the unstyled width of the names column.
func (r flagRow) width() int {
	n := len(strings.Join(r.names, ", "))
	if len(r.names) == 1 {
		n += len(longOnlyIndent)
	}
	if r.value != "" {
		n += 1 + len(r.value)
	}
	return n
}

// flagUsages lists the visible flags of fs, one per line, with aligned
// descriptions.
func (h *HelpFormatter) flagUsages(fs *pflag.FlagSet) string {
	var rows []flagRow
	width := 0

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		row := flagRow{names: []string{"--" + f.Name}}
		if f.Shorthand != "" {
			row.names = []string{"-" + f.Shorthand, "--" + f.Name}
		}

		row.value, row.usage = pflag.UnquoteUsage(f)
		if showDefault(f) {
			row.usage += fmt.Sprintf(" (default %s)", f.DefValue)
		}

		rows = append(rows, row)
		width = max(width, row.width())
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		styled := make([]string, len(row.names))
		for i, name := range row.names {
			styled[i] = h.styles.flag.Render(name)
		}

		var line strings.Builder
		line.WriteString("  ")
		if len(row.names) == 1 {
			line.WriteString(longOnlyIndent)
		}
		line.WriteString(strings.Join(styled, ", "))
		if row.value != "" {
			line.WriteString(" " + h.styles.dim.Render(row.value))
		}

		line.WriteString(strings.Repeat(" ", width-row.width()+3))
		line.WriteString(row.usage)
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// showDefault reports whether a flag's default is worth printing.
func showDefault(f *pflag.Flag) bool {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return false
	default:
		return true
	}
}

// ApplyToCommand applies styled help templates to a Cobra command. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate + usageTemplate))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := usage.Execute(command.OutOrStderr(), command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := help.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
