package domain

import "errors"

var ErrAmountMustBePositive = errors.New("amount must be positive")
var ErrAccountNotFound = errors.New("account not found")
var ErrUserNotFound = errors.New("user not found")
var ErrNotAccountOwner = errors.New("requester is not the account owner")
var ErrInsufficientBalance = errors.New("insufficient balance")
var ErrEmailTaken = errors.New("email is already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrVersionConflict is returned by a ledger store when the account version
// moved between read and write. Callers recover by re-reading and retrying.
var ErrVersionConflict = errors.New("account version conflict")

// ErrLedgerBusy is surfaced when the compare-and-update retries are exhausted.
var ErrLedgerBusy = errors.New("ledger busy, try again")
