package errors

import "errors"

// Custom application errors
var (
	ErrNoTimeFound       = errors.New("could not find a time in message")  // No time expression after the command
	ErrUnparseableDate   = errors.New("could not parse date")              // Expression matched but did not resolve
	ErrPastDate          = errors.New("time has already passed")           // Resolved instant is not in the future
	ErrReminderNotFound  = errors.New("reminder not found")                // Missing, or owned by someone else
	ErrDatabaseOperation = errors.New("database operation failed")         // Generic storage error
	ErrPlatformAPI       = errors.New("messaging platform request failed") // Reddit/Telegram/LINE call failed
	ErrScheduling        = errors.New("scheduling failed")                 // Cron registration failed
	ErrInvalidConfig     = errors.New("invalid configuration")
)
