// Package translate formats user-facing messages for the system locale.
package translate

import (
	"io"
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

const fallbackLocale = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("y86: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{fallbackLocale}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Fprint writes an en-US Fprintf() format, translated, to out.
func Fprint(out io.Writer, key message.Reference, args ...any) (n int, err error) {
	return printer.Fprintf(out, key, args...)
}
