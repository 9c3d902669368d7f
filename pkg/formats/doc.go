// Package formats implements the registry of context data formats.
//
// Each format carries a canonical name, optional aliases, the file
// extensions it is inferred from, and a decode function turning raw bytes
// into a tree of string-keyed maps. The full static table is always built;
// formats whose decoder is not compiled in (see the noyaml build tag)
// remain in the table but report themselves unavailable, so callers can
// distinguish "no such format" from "format not supported in this build".
package formats
