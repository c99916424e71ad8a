// Package ui renders the console text of the server and the client.
// Announcements are plain chat lines; banners only go to the local terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

const productName = "Chat Relay"

// JoinAnnouncement is the chat line a client sends right after connecting.
func JoinAnnouncement(emoji, username string) string {
	return fmt.Sprintf("💬::: %s %s has entered the chat :::💬", emoji, username)
}

// LeaveAnnouncement is the chat line a client sends before leaving.
func LeaveAnnouncement(emoji, username string) string {
	return fmt.Sprintf("💬 %s %s has left the chat 💬", emoji, username)
}

// ChatLine formats an outgoing message with the author display identity.
func ChatLine(emoji, username, text string) string {
	return fmt.Sprintf("%s %s: %s", emoji, username, text)
}

type Printer struct {
	out     io.Writer
	colours bool
}

func NewPrinter(out io.Writer, colours bool) *Printer {
	return &Printer{out: out, colours: colours}
}

func (p *Printer) ServerBanner(addr string) {
	border := "    🌐" + strings.Repeat("💬", 22) + "🌐"
	headline := fmt.Sprintf(":::: %s is %s on %s  ::::",
		p.paint(color.New(color.FgLightRed), productName+" Server"),
		p.paint(color.New(color.FgLightGreen), "Online"),
		p.paint(color.New(color.FgLightBlue, color.OpBold), addr))
	p.lines(
		"",
		border,
		"    ╔══════════════════════════════════════════════╗",
		headline,
		"    ╚══════════════════════════════════════════════╝",
		border,
	)
}

func (p *Printer) ShutdownBanner() {
	p.lines(
		"",
		"    ╔══════════════════════════════════════════════╗",
		fmt.Sprintf("::::    %s Shutting Down...    ::::",
			p.paint(color.New(color.FgLightRed), productName+" Server")),
		"    ╚══════════════════════════════════════════════╝",
	)
}

func (p *Printer) WelcomeBanner(emoji, username string) {
	p.lines(
		"",
		"╔═════════════════════════════════╗",
		"║       💬 "+p.paint(color.New(color.FgCyan, color.OpBold), productName+" v1.0")+" 💬      ║",
		"╚═════════════════════════════════╝",
		"Welcome to the chat!",
		fmt.Sprintf("Your username is: %s %s", emoji, p.paint(color.New(color.FgYellow), username)),
		"",
	)
}

// Incoming prints a line received from the relay, skipping blank ones.
func (p *Printer) Incoming(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	_, _ = fmt.Fprintln(p.out, line)
}

func (p *Printer) paint(style color.Style, text string) string {
	if !p.colours {
		return text
	}
	return style.Render(text)
}

func (p *Printer) lines(lines ...string) {
	for _, l := range lines {
		_, _ = fmt.Fprintln(p.out, l)
	}
}
