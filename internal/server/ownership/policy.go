// Package ownership decides whether a caller may act on an owned record.
package ownership

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskplaces/internal/common"
)

type Decision int

const (
	Allow Decision = iota
	Forbidden
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Decide checks existence before ownership: an absent record is NotFound
// whoever asks.
func Decide(found bool, ownerID, callerID string) Decision {
	if !found {
		return NotFound
	}
	if ownerID != callerID {
		return Forbidden
	}
	return Allow
}

// Err converts d into the error taxonomy. entity is the capitalised record
// name used in messages ("Task", "Place"); action is the verb for Forbidden
// ("update", "delete", "view"). Allow yields nil.
func (d Decision) Err(entity, action string) error {
	switch d {
	case Allow:
		return nil
	case NotFound:
		return common.NotFound(entity + " not found")
	case Forbidden:
		return common.Forbidden(fmt.Sprintf("You cannot %s a %s that is not yours", action, strings.ToLower(entity)))
	default:
		return common.ErrorInternal
	}
}
