package auth

import (
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// CanMessage decides whether a sender may message a receiver, given the
// most-recently-updated connection row between them (nil when none exists).
//
// A blocked edge denies unconditionally, privileged roles included. An
// accepted edge allows. Otherwise only roles holding the
// message-without-connection capability may proceed.
func CanMessage(senderRole permissions.Role, latest *models.Connection) error {
	if latest != nil && latest.Status == models.ConnectionBlocked {
		return apperrors.ErrBlocked
	}
	if latest != nil && latest.Status == models.ConnectionAccepted {
		return nil
	}
	if permissions.CanMessageWithoutConnection(senderRole) {
		return nil
	}
	return apperrors.ErrNotConnected
}
