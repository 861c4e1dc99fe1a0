/*
Package raw models the concrete parse tree delivered by a Ripper-style grammar
engine, and the callback contract between such an engine and the tree builder.

A grammar engine reports two kinds of events: scanner events for every token
it reads (identifiers, keywords, string content, comments, white space) and
parser events for every production it reduces. A Handler turns these events
into values; the values returned for sub-productions are handed back to the
handler as arguments of enclosing productions. The result of the top-most
production (`program`) is the raw tree.

Raw values are a closed set of types: *Node, *Token, List, Sym, Bool, Int,
Text.
Nil is a valid value, too (e.g. for an absent else-branch).

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raw
