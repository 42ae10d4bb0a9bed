package graphstore

import "golang.org/x/exp/slices"

// Link pairs a peer node's external id with the external id of the
// relationship connecting to it, as stored in one entry of an adjacency
// Group. Both ids are always external ids (never raw offsets), per
// spec.md's "Cyclic references" design note: adjacency never holds
// pointers, only ids, so ownership stays with the per-type stores.
type Link struct {
	NodeID uint64
	RelID  uint64
}

// less implements the (peer-node-id, relationship-id) ascending ordering
// spec.md §3 requires of every group's links vector.
func less(a, b Link) bool {
	if a.NodeID != b.NodeID {
		return a.NodeID < b.NodeID
	}
	return a.RelID < b.RelID
}

// Group is one relationship type's worth of adjacency for a single node:
// the type id and its sorted Links.
type Group struct {
	RelType uint16
	Links   []Link
}

// findGroup returns the index of the Group for relType within groups, or
// -1 if relType has no group yet. Groups are not kept sorted by type
// (spec.md §4.8: "groups are not sorted by type, so a linear scan... is
// acceptable"), so this is an O(types-on-this-node) linear scan.
func findGroup(groups []Group, relType uint16) int {
	for i := range groups {
		if groups[i].RelType == relType {
			return i
		}
	}
	return -1
}

// insertLink inserts link into groups' Group for relType, creating a new
// Group (appended at the end, preserving first-use insertion order) if
// none exists yet, and keeping the Group's Links sorted via binary-search
// insertion.
func insertLink(groups []Group, relType uint16, link Link) []Group {
	idx := findGroup(groups, relType)
	if idx == -1 {
		groups = append(groups, Group{RelType: relType, Links: []Link{link}})
		return groups
	}
	links := groups[idx].Links
	pos, _ := slices.BinarySearchFunc(links, link, func(a, b Link) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	})
	links = append(links, Link{})
	copy(links[pos+1:], links[pos:])
	links[pos] = link
	groups[idx].Links = links
	return groups
}

// removeLink deletes the single link (NodeID, RelID) from groups' Group
// for relType, if present. An empty Group left behind is kept (not
// compacted away) so that a node's set of "relationship types it has ever
// used" stays stable for callers iterating groups; it simply contributes
// no links to any future scan.
func removeLink(groups []Group, relType uint16, link Link) {
	idx := findGroup(groups, relType)
	if idx == -1 {
		return
	}
	links := groups[idx].Links
	pos, found := slices.BinarySearchFunc(links, link, func(a, b Link) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	})
	if !found {
		return
	}
	groups[idx].Links = append(links[:pos], links[pos+1:]...)
}
