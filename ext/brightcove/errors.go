package brightcove

import "pitlane/util"

var (
	ErrNoPolicyKey    = &util.Error{Message: "failed to find brightcove policy key"}
	ErrPlaybackFailed = &util.Error{Message: "brightcove playback api returned an error"}
)
