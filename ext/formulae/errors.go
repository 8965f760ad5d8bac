package formulae

import "pitlane/util"

var (
	ErrMissingMarkup = &util.Error{Message: "required markup not found in webpage"}
	ErrMissingField  = &util.Error{Message: "required field missing from api response"}
	ErrInvalidDate   = &util.Error{Message: "failed to parse upload date"}
	ErrNoSeasonTag   = &util.Error{Message: "no season tag found"}
	ErrUnknownSource = &util.Error{Message: "unknown metadata source, use api or webpage"}
)
