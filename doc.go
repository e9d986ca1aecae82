/*
Package arachnid is a minimal W3C WebDriver client.

It speaks the WebDriver HTTP/JSON protocol to a server such as geckodriver:
it creates a session, navigates it to a URL, locates one element and reads
that element's text, then deletes the session. It does not start browsers
itself, but NewGeckoDriverService can start geckodriver locally.

Example usage:

	// Print the text of the first <h1> on a page.
	package main

	import (
		"fmt"

		"github.com/tmickel/arachnid"
	)

	func main() {
		s := arachnid.Server{Host: "localhost", Port: "4444", Capabilities: arachnid.Capabilities(`{}`)}
		d := arachnid.NewDriver(s, nil)

		err := arachnid.WithSession(d, func(d *arachnid.Driver) error {
			if err := d.Get("https://recurse.com"); err != nil {
				return err
			}
			elem, err := d.FindElement(arachnid.ByTagName, "h1")
			if err != nil {
				return err
			}
			text, err := d.ElementText(elem)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		})
		if arachnid.IsKind(err, arachnid.KindNoSuchElement) {
			fmt.Println("no <h1> on the page")
		}
	}

Every failure is an *Error whose Kind tells a transport failure from an
error status returned by the server, an unparseable reply, a missing session
or a missing element.
*/
package arachnid
