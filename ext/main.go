package ext

import (
	"pitlane/ext/brightcove"
	"pitlane/ext/formulae"
	"pitlane/models"
)

var List = []*models.Extractor{
	formulae.Extractor,
	formulae.BoxsetExtractor,
	brightcove.Extractor,
}
