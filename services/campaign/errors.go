package campaign

import "errors"

var (
	ErrInvalidCampaign    = errors.New("invalid campaign")
	ErrNotOrganizer       = errors.New("only the organizer can change this campaign")
	ErrStorageUnavailable = errors.New("image storage is not configured")
)
