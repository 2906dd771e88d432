/*
Package parsekit is a toolkit for building language front-ends at runtime.

Grammars are composed from BNF terms, an LALR(1) automaton is constructed
from them on the fly, and a scanner plus a shift/reduce driver turn source
text into parse trees. No code generation step is involved. Package structure
is as follows:

■ lr: Package lr holds the grammar term graph, the grammar builder, and all the
data types shared by automaton construction, scanning and parsing.
Sub-packages implement LALR(1) construction (lr/lalr), terminals (lr/terminals),
the scanner (lr/scanner), the parser driver (lr/parser) and the language build
pipeline (lr/language).

■ runtime: Package runtime provides values, an operator dispatch engine and
scopes for interpreters.

■ ast: Package ast builds abstract syntax trees from parse trees and
evaluates them.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parsekit
