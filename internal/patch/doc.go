// Package patch is the structured, read-only form of a unified diff: a PatchSet of per-file Patches, each an ordered list of Hunks whose
// Lines carry their kind and their line numbers on both sides.
//
// Parse builds a PatchSet from git-style or traditional unified diff text. Nothing in this package mutates a PatchSet after Parse returns;
// downstream packages (reconstruct, align, intraline) derive their own per-file and per-hunk data from it.
package patch
