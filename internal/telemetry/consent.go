package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var consentBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

const consentText = `Help improve Perspecto?

Perspecto can send anonymous usage statistics.
What we collect:
  • Which commands run and whether they succeed
  • Artifact type requested (persona, jtbd, both)
  • OS and architecture

What we never collect:
  • Project names or project context text
  • Generated personas or jobs
  • API keys or account e-mail

Change this anytime with:
  perspecto config telemetry disable`

// PromptForConsent asks once whether telemetry may be sent and records the answer.
// Non-interactive sessions are recorded as declined without prompting.
func PromptForConsent(cfg *Config, in io.Reader, out io.Writer, interactive bool) (bool, error) {
	if !interactive {
		cfg.Disable()
		return false, cfg.Save()
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, consentBox.Render(consentText))
	fmt.Fprint(out, "Enable anonymous telemetry? [y/N] ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		cfg.Disable()
		return false, cfg.Save()
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer == "y" || answer == "yes" {
		cfg.Enable()
		fmt.Fprintln(out, "Telemetry enabled. Thank you!")
	} else {
		cfg.Disable()
		fmt.Fprintln(out, "Telemetry disabled.")
	}
	return cfg.Enabled, cfg.Save()
}
