/*
Package unescape decodes backslash escape sequences in the content of Ruby
string, symbol, regexp and word-list literals.

Which escapes are interpreted depends on the kind of literal, identified by
its opening delimiter. Decode applies the complete decision table:

    "…"  %Q(…)  %(…)  `…`  %x(…)  :"…"  <<ID  <<"ID"  <<-ID  <<~ID   full unescape
    '…'  %q(…)  :'…'  %s(…)                                           delimiter and backslash only
    <<'ID'  <<-'ID'  <<~'ID'                                          content taken as is
    /…/  %r(…)                                                        regexp: line continuations only
    %w(…)  %i(…)                                                      delimiter, backslash, space, newline
    %W(…)  %I(…)                                                      full unescape, continuation kept

Decoded content must be valid UTF-8; bytes produced by escapes alone (e.g.
"\xff") yield a binary string.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package unescape
