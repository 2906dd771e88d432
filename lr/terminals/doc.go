/*
Package terminals provides the standard terminals for scanners: number,
string and character literals, identifiers, comments and terminals
defined by regular expressions.

Literals and identifiers share the structure of a compound terminal:

    prefix  body  suffix         e.g.   0x  1F  u

Prefixes set scan flags (e.g. hexadecimal digits), the body is read by the
terminal, and suffixes select the type of the token value. Terminals
report malformed input as error tokens: a matched but invalid token stops
the scanner from trying other terminals.

Multi-line literals and block comments support partial tokens for
line-by-line scanning. A partial token is flagged as incomplete, and the
scan context's state records how to continue on the next line.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package terminals

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsekit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("parsekit.scanner")
}
