/**
 * @description
 * Sentinel errors shared by the service layer.
 * Handlers map these once to the HTTP error taxonomy instead of re-deriving
 * status codes per call site.
 */

package services

import "errors"

var (
	// ErrNotFound means the referenced entity is absent.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden means the entity exists but is not owned by the requester.
	ErrForbidden = errors.New("resource not owned by requester")

	// ErrDefaultWallet rejects deletion of the user's default wallet.
	ErrDefaultWallet = errors.New("default wallet cannot be deleted")
	// ErrSameWallet rejects transfers where source and target are identical.
	ErrSameWallet = errors.New("source and target wallet are identical")
	// ErrNonPositiveAmount rejects zero or negative amounts.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	// ErrNoAdjustment rejects adjustments where the balance is already at target.
	ErrNoAdjustment = errors.New("wallet balance already equals target")
	// ErrDuplicateCategory rejects a second category with the same name and type.
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrImmutableAmount rejects amount edits on transfer and adjustment rows.
	ErrImmutableAmount = errors.New("amount of transfer and adjustment rows cannot be edited")
)
