/*
Package portref provides a structured representation for references to a
named port on a named node, based on the canonical format `node.port`.

References are how diagram files and the command line point at a block's
output (e.g. `pump.reliability`) without knowing the graph's internal handles.
This package centralizes all formatting and parsing logic for them.
*/
package portref
