package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind discriminates the three reference namespaces. Code below the
// HTTP boundary switches on Kind, never on the shape of the id string.
type RefKind string

const (
	RefInternal      RefKind = "internal"       // row in the recipes table
	RefExternal      RefKind = "external"       // third-party catalog id
	RefExternalVideo RefKind = "external_video" // curated video recipe, no catalog backing
)

// Ref identifies a recipe in any of the three namespaces. Two refs are
// the same recipe iff Kind and ID are equal, regardless of how the
// recipe arrived (full row vs bare id string).
type Ref struct {
	Kind RefKind
	ID   string
}

func InternalRef(id uint64) Ref {
	return Ref{Kind: RefInternal, ID: strconv.FormatUint(id, 10)}
}

// InternalID returns the recipe row id for internal refs.
func (r Ref) InternalID() (uint64, bool) {
	if r.Kind != RefInternal {
		return 0, false
	}
	id, err := strconv.ParseUint(r.ID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

const videoWirePrefix = "external_video_"

// ParseWireID decodes the legacy client id format into a Ref. This is
// the only place the prefix convention is interpreted: digits-only ids
// are internal rows, the external_video_ prefix marks curated videos,
// anything else is a catalog id.
func ParseWireID(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty recipe id")
	}
	if rest, ok := strings.CutPrefix(s, videoWirePrefix); ok {
		if rest == "" {
			return Ref{}, fmt.Errorf("empty video recipe id")
		}
		return Ref{Kind: RefExternalVideo, ID: rest}, nil
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Ref{Kind: RefInternal, ID: s}, nil
	}
	return Ref{Kind: RefExternal, ID: s}, nil
}

// WireID is the inverse of ParseWireID.
func (r Ref) WireID() string {
	if r.Kind == RefExternalVideo {
		return videoWirePrefix + r.ID
	}
	return r.ID
}
