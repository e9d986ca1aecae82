package arachnid

import "fmt"

// FindMethod is a strategy by which elements are located in the DOM.
//
// The set is closed: every method has exactly one protocol token, and adding a
// method means adding both the constant and its entry in findMethodTokens.
type FindMethod int

// Methods by which to find elements.
const (
	ByCSSSelector FindMethod = iota
	ByLinkText
	ByPartialLinkText
	ByTagName
	ByXPATH
)

var findMethodTokens = [...]string{
	ByCSSSelector:     "css selector",
	ByLinkText:        "link text",
	ByPartialLinkText: "partial link text",
	ByTagName:         "tag name",
	ByXPATH:           "xpath",
}

// FindMethods returns every supported FindMethod in declaration order.
func FindMethods() []FindMethod {
	return []FindMethod{ByCSSSelector, ByLinkText, ByPartialLinkText, ByTagName, ByXPATH}
}

// Valid reports whether m is one of the supported methods.
func (m FindMethod) Valid() bool {
	return m >= 0 && int(m) < len(findMethodTokens)
}

// String returns the token sent as "using" in an element lookup.
func (m FindMethod) String() string {
	if !m.Valid() {
		return fmt.Sprintf("FindMethod(%d)", int(m))
	}
	return findMethodTokens[m]
}

// ParseFindMethod returns the FindMethod whose protocol token is s.
func ParseFindMethod(s string) (FindMethod, error) {
	for _, m := range FindMethods() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown locator strategy %q", s)
}

// Capabilities is the JSON payload describing the desired browser. It is sent
// verbatim as the "capabilities" member of a new session request and is never
// interpreted by the client. An empty value is sent as {}.
type Capabilities []byte

// Server identifies a WebDriver server and the capabilities used for new
// sessions on it. It is passed by value and not modified by the client.
type Server struct {
	Host         string
	Port         string
	Capabilities Capabilities
}

// ElementID is the opaque, server-assigned handle of a located element. It is
// only meaningful within the session that produced it.
type ElementID string

// Status contains information returned by the Status method.
type Status struct {
	Ready   bool
	Message string
}
