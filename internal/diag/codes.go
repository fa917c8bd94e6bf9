package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Reference syntax
	SynInfo            Code = 1000
	SynUnexpectedToken Code = 1001
	SynUnclosedAngle   Code = 1002
	SynUnclosedBracket Code = 1003
	SynTrailingInput   Code = 1004
	SynEmptyReference  Code = 1005

	// Name binding
	BindInfo             Code = 2000
	BindUnresolvedName   Code = 2001
	BindUnresolvedMember Code = 2002
	BindArgCountMismatch Code = 2003

	// Manifest loading
	ManifestInfo          Code = 3000
	ManifestBadClass      Code = 3001
	ManifestBadSupertype  Code = 3002
	ManifestDuplicateName Code = 3003
)

func (c Code) String() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("MAN%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("BIND%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	default:
		return fmt.Sprintf("JAV%04d", uint16(c))
	}
}
