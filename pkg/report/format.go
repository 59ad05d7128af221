// Package report renders test results as human-readable text and as JSON
// documents.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/ormasoftchile/extel/pkg/outcome"
)

// The palette is rendered through a renderer pinned to the basic ANSI
// profile, so colored output does not depend on the terminal it ends up in.
var (
	ansi = newANSIRenderer()

	okStyle   = ansi.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = ansi.NewStyle().Foreground(lipgloss.Color("1"))
)

func newANSIRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}

const (
	okToken     = "ok"
	failedToken = "FAILED"
)

// Header returns the line written once before a suite's results.
func Header(suite string) string {
	return fmt.Sprintf("[%s]\n", suite)
}

// Format renders one test result at its 1-based ordinal position.
//
// A single report renders as
//
//	Test #1 (name) ... ok
//	Test #2 (name) ... FAILED
//	  [x] message
//
// and a parameterized report renders one such block per outcome with the
// sub-ordinal <ordinal>.<k>, where k counts from 1 for every outcome.
// With colored set, the ok and FAILED tokens are wrapped in ANSI green and
// red.
func Format(result outcome.TestResult, ordinal int, colored bool) string {
	var b strings.Builder
	switch result.Report.Kind() {
	case outcome.KindParameterized:
		for k, o := range result.Report.Outcomes() {
			writeOutcome(&b, fmt.Sprintf("%d.%d", ordinal, k+1), result.Name, o, colored)
		}
	default:
		writeOutcome(&b, fmt.Sprintf("%d", ordinal), result.Name, result.Report.Outcome(), colored)
	}
	return b.String()
}

func writeOutcome(b *strings.Builder, label, name string, o outcome.Outcome, colored bool) {
	if o.Success() {
		fmt.Fprintf(b, "Test #%s (%s) ... %s\n", label, name, paint(okStyle, okToken, colored))
		return
	}
	fmt.Fprintf(b, "Test #%s (%s) ... %s\n", label, name, paint(failStyle, failedToken, colored))
	fmt.Fprintf(b, "  [x] %s\n", o.Message())
}

func paint(style lipgloss.Style, token string, colored bool) string {
	if !colored {
		return token
	}
	return style.Render(token)
}
