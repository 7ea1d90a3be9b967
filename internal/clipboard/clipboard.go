// Package clipboard writes text to the system clipboard when one exists.
package clipboard

import "github.com/atotto/clipboard"

// Writer is a clipboard that may be unavailable on the host.
type Writer interface {
	Available() bool
	WriteAll(text string) error
}

// System is the host clipboard (pbcopy, xclip/xsel/wl-copy, or the Windows API).
type System struct{}

// Available reports whether a clipboard utility was found at startup.
func (System) Available() bool { return !clipboard.Unsupported }

// WriteAll replaces the clipboard contents with text.
func (System) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Noop is used when the clipboard is disabled in configuration.
type Noop struct{}

func (Noop) Available() bool { return false }
func (Noop) WriteAll(string) error { return nil }
