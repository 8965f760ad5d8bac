package enums

type ExtractorCategory string

const (
	ExtractorCategorySocial    ExtractorCategory = "social"
	ExtractorCategoryStreaming ExtractorCategory = "streaming"
	ExtractorCategorySports    ExtractorCategory = "sports"
)
