package generator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Reporter receives the per-route console lines of a run
type Reporter interface {
	Processed(methods []string, uri string)
	Skipped(methods []string, uri string)
	Failed(methods []string, uri string, err error)
}

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// Console writes operator-facing lines. Colour is used only when the writer
// is a terminal.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsole creates a console reporter on out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, color: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Processed prints "Processed route: [GET,POST] /uri" in green
func (c *Console) Processed(methods []string, uri string) {
	c.line(colorGreen, "Processed route: "+routeLabel(methods, uri))
}

// Skipped prints "Skipping route: [GET] /uri" in yellow
func (c *Console) Skipped(methods []string, uri string) {
	c.line(colorYellow, "Skipping route: "+routeLabel(methods, uri))
}

// Failed prints the route and the error in red
func (c *Console) Failed(methods []string, uri string, err error) {
	c.line(colorRed, fmt.Sprintf("Failed route: %s: %v", routeLabel(methods, uri), err))
}

// Summary prints the totals of a run
func (c *Console) Summary(s *Summary) {
	c.line("", fmt.Sprintf("Documentation generated: %d processed, %d skipped, %d failed (%d inserted, %d updated) in %s",
		s.Processed, s.Skipped, s.Failed, s.Inserted, s.Updated, s.Duration.Round(time.Millisecond)))
	for _, f := range s.FailedRoutes {
		c.line(colorRed, fmt.Sprintf("  %s: %s", routeLabel(f.Methods, f.URI), f.Error))
	}
	if s.CollectionPath != "" {
		c.line("", "Postman collection written to "+s.CollectionPath)
	}
}

func (c *Console) line(color, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.color && color != "" {
		fmt.Fprintf(c.out, "%s%s%s\n", color, text, colorReset)
		return
	}
	fmt.Fprintln(c.out, text)
}

func routeLabel(methods []string, uri string) string {
	return "[" + strings.Join(methods, ",") + "] " + uri
}
