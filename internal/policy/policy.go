package policy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rentwheels/rentwheels-backend/pkg/enums"
	pkgerrors "github.com/rentwheels/rentwheels-backend/pkg/errors"
)

// Action names a guarded operation for error messages and audit logs.
type Action string

const (
	ActionCancelBooking Action = "cancel booking"
	ActionReturnBooking Action = "return booking"
	ActionViewUser      Action = "view user"
	ActionUpdateUser    Action = "update user"
)

// Authorize applies the platform's two-role access rule: admins may act on any
// resource, customers only on resources they own.
func Authorize(role enums.UserRole, callerID uuid.UUID, action Action, ownerID uuid.UUID) error {
	if role == enums.UserRoleAdmin {
		return nil
	}
	if callerID != uuid.Nil && callerID == ownerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("%s not permitted", action))
}
