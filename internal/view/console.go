package view

import (
	"fmt"
	"io"
	"sync"

	goBlog "github.com/MrEthical07/goBlog"
)

// Console prints notifications to a terminal and turns route changes into
// command hints.
type Console struct {
	out    io.Writer
	styles Styles

	mu    sync.Mutex
	route string
}

func NewConsole(p *Printer) *Console {
	return &Console{out: p.out, styles: p.styles}
}

func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, c.styles.Success.Render("✓ "+msg))
}

func (c *Console) Warning(msg string) {
	fmt.Fprintln(c.out, c.styles.Warning.Render("! "+msg))
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, c.styles.Error.Render("✗ "+msg))
}

// Navigate records route and prints the matching command.
func (c *Console) Navigate(route string) {
	c.mu.Lock()
	c.route = route
	c.mu.Unlock()

	if hint := commandHint(route); hint != "" {
		fmt.Fprintln(c.out, c.styles.Muted.Render("→ "+hint))
	}
}

// Route returns the last route navigated to.
func (c *Console) Route() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

func commandHint(route string) string {
	switch route {
	case goBlog.RouteLogin:
		return "run `goblog login` to sign in"
	case goBlog.RouteRegister:
		return "registration is not available from the terminal"
	case goBlog.RouteCreatePost:
		return "run `goblog posts create`"
	default:
		return ""
	}
}
